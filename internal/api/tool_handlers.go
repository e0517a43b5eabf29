package api

import (
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourusername/challenge-blueprint/internal/calculators"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/tools"
)

// lotSize handles POST /v1/calculators/lot-size
func (s *Server) lotSize(c *fiber.Ctx) error {
	var in calculators.LotSizeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	res, err := calculators.LotSize(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// lotSizeTable handles POST /v1/calculators/lot-size-table
func (s *Server) lotSizeTable(c *fiber.Ctx) error {
	var in calculators.LotSizeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	rows, err := calculators.LotSizeTable(in.AccountBalance, in.StopLossPips, in.PipValue)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"rows": rows})
}

// compoundInterest handles POST /v1/calculators/compound-interest
func (s *Server) compoundInterest(c *fiber.Ctx) error {
	var in calculators.CompoundInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	res, err := calculators.CompoundInterest(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// riskReward handles POST /v1/calculators/risk-reward
func (s *Server) riskReward(c *fiber.Ctx) error {
	var in calculators.RiskRewardInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	res, err := calculators.RiskReward(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// convert handles POST /v1/tools/convert
func (s *Server) convert(c *fiber.Ctx) error {
	var body struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	out, err := tools.Convert(body.Kind, body.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"kind": body.Kind, "input": body.Value, "result": out})
}

// generatePassword handles POST /v1/tools/password. An empty body uses the defaults.
func (s *Server) generatePassword(c *fiber.Ctx) error {
	opts := tools.DefaultPasswordOptions()
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
	}
	pw, err := tools.GeneratePassword(opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"password": pw, "strength": tools.ScorePassword(pw)})
}

// scorePassword handles POST /v1/tools/password/score
func (s *Server) scorePassword(c *fiber.Ctx) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	return c.JSON(tools.ScorePassword(body.Password))
}

// textStats handles POST /v1/tools/text-stats
func (s *Server) textStats(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	return c.JSON(tools.AnalyzeText(body.Text))
}

// grades handles POST /v1/tools/grades
func (s *Server) grades(c *fiber.Ctx) error {
	var body struct {
		Grades []tools.Grade `json:"grades"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	res, err := tools.WeightedAverage(body.Grades)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// usernames handles POST /v1/tools/usernames
func (s *Server) usernames(c *fiber.Ctx) error {
	opts := tools.UsernameOptions{Count: 5, WithDigits: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
	}
	rng := rand.New(rand.NewSource(s.now().UnixNano()))
	names, err := tools.GenerateUsernames(rng, opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"usernames": names})
}

// qrCode handles POST /v1/tools/qr and responds with a PNG.
func (s *Server) qrCode(c *fiber.Ctx) error {
	body := struct {
		Content string `json:"content"`
		Size    int    `json:"size"`
	}{Size: 256}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	png, err := tools.QRCodePNG(body.Content, body.Size)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// countdown handles POST /v1/tools/countdown
func (s *Server) countdown(c *fiber.Ctx) error {
	var body struct {
		Target string `json:"target"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	target, err := time.Parse(time.RFC3339, body.Target)
	if err != nil {
		return writeError(c, &models.ValidationError{Field: "target", Reason: "must be an RFC 3339 timestamp"})
	}
	return c.JSON(tools.Countdown(s.now(), target))
}
