// Package tools holds the small stateless utility tools: unit and number
// converters, password generation and scoring, text statistics, grade
// averages, username and QR code generation, and countdowns.
package tools

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const kmPerMile = 1.609344

var (
	binaryPattern = regexp.MustCompile(`^[01]{1,63}$`)
	hexPattern    = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// BinaryToDecimal parses a base-2 string of up to 63 digits.
func BinaryToDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !binaryPattern.MatchString(s) {
		return 0, &models.ValidationError{Field: "binary", Reason: "must contain only 0 and 1"}
	}
	return strconv.ParseInt(s, 2, 64)
}

// DecimalToBinary formats a non-negative integer in base 2.
func DecimalToBinary(n int64) (string, error) {
	if n < 0 {
		return "", &models.ValidationError{Field: "decimal", Reason: "must not be negative"}
	}
	return strconv.FormatInt(n, 2), nil
}

// RGB is an 8-bit colour.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HexToRGB parses #rgb or #rrggbb, with or without the leading #.
func HexToRGB(hex string) (RGB, error) {
	hex = strings.TrimSpace(hex)
	if !hexPattern.MatchString(hex) {
		return RGB{}, &models.ValidationError{Field: "hex", Reason: "must be #rgb or #rrggbb"}
	}
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, err
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// RGBToHex formats a colour as lower-case #rrggbb.
func RGBToHex(c RGB) (string, error) {
	for _, ch := range []struct {
		name string
		v    int
	}{{"r", c.R}, {"g", c.G}, {"b", c.B}} {
		if ch.v < 0 || ch.v > 255 {
			return "", &models.ValidationError{Field: ch.name, Reason: "must be between 0 and 255"}
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

// MilesToKm converts miles to kilometres.
func MilesToKm(miles float64) float64 { return miles * kmPerMile }

// KmToMiles converts kilometres to miles.
func KmToMiles(km float64) float64 { return km / kmPerMile }

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// Conversions lists the names accepted by Convert.
func Conversions() []string {
	return []string{"bin2dec", "dec2bin", "hex2rgb", "rgb2hex", "mi2km", "km2mi", "c2f", "f2c"}
}

// Convert runs the named conversion on a textual value and returns the
// result as text. rgb2hex takes "r,g,b".
func Convert(kind, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case "bin2dec":
		n, err := BinaryToDecimal(value)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case "dec2bin":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", &models.ValidationError{Field: "decimal", Reason: "must be an integer"}
		}
		return DecimalToBinary(n)
	case "hex2rgb":
		c, err := HexToRGB(value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B), nil
	case "rgb2hex":
		parts := strings.Split(value, ",")
		if len(parts) != 3 {
			return "", &models.ValidationError{Field: "rgb", Reason: "must be r,g,b"}
		}
		var ch [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return "", &models.ValidationError{Field: "rgb", Reason: "components must be integers"}
			}
			ch[i] = v
		}
		return RGBToHex(RGB{R: ch[0], G: ch[1], B: ch[2]})
	case "mi2km", "km2mi", "c2f", "f2c":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", &models.ValidationError{Field: "value", Reason: "must be a number"}
		}
		var out float64
		switch kind {
		case "mi2km":
			out = MilesToKm(f)
		case "km2mi":
			out = KmToMiles(f)
		case "c2f":
			out = CelsiusToFahrenheit(f)
		default:
			out = FahrenheitToCelsius(f)
		}
		return strconv.FormatFloat(round(out, 4), 'f', -1, 64), nil
	}
	return "", &models.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown conversion %q", kind)}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
