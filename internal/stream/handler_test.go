package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/challenge-blueprint/internal/challenge"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/preferences"
	"github.com/yourusername/challenge-blueprint/internal/service"
	"github.com/yourusername/challenge-blueprint/internal/storage/memory"
)

func scenarioProfile() models.TraderProfile {
	return models.TraderProfile{
		AccountSize:     10000,
		ProfitTarget:    10,
		PassDays:        14,
		WinRate:         60,
		RiskRewardRatio: 1.5,
		RiskPerTrade:    1,
		TradesPerDay:    3,
	}
}

func dial(t *testing.T, cfg Config) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(serve(t, cfg), nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

// serve starts a handler and returns its websocket URL.
func serve(t *testing.T, cfg Config) string {
	t.Helper()
	kv := memory.NewKVStore()
	t.Cleanup(func() { kv.Close() })
	if cfg.Simulations == nil {
		cfg.Simulations = service.NewSimulationService(challenge.SimulationConfig{Workers: 2}, nil, nil, nil)
	}
	cfg.Preferences = preferences.NewStore(kv, nil)
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = 20 * time.Millisecond
	}

	srv := httptest.NewServer(NewHandler(cfg))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// next reads frames until one of type want arrives.
func next(t *testing.T, ws *websocket.Conn, want string) Frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(10*time.Second)))
	for {
		var f Frame
		require.NoError(t, ws.ReadJSON(&f))
		if f.Type == want {
			return f
		}
	}
}

func TestInitialSnapshotUsesDefaults(t *testing.T) {
	ws := dial(t, Config{})

	f := next(t, ws, FrameMetrics)
	require.NotNil(t, f.Snapshot)
	assert.Equal(t, uint64(1), f.Snapshot.Version)
	assert.Equal(t, models.DefaultTraderProfile(), f.Snapshot.Profile)
	assert.Equal(t, models.StatusOK, f.Snapshot.Status)
}

func TestSimulateDeliversResult(t *testing.T) {
	ws := dial(t, Config{DefaultTrials: 100})
	next(t, ws, FrameMetrics)

	req := SimulateRequest{Profile: scenarioProfile(), Seed: 42}
	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgSimulate, Request: &req}))

	started := next(t, ws, FrameStarted)
	assert.Equal(t, uint64(1), started.Generation)

	res := next(t, ws, FrameResult)
	assert.Equal(t, started.Generation, res.Generation)
	require.NotNil(t, res.Result)
	assert.Equal(t, 100, res.Result.Trials)
	assert.Equal(t, int64(42), res.Result.Seed)
}

func TestSimulateRejectsInvalidRequests(t *testing.T) {
	ws := dial(t, Config{})
	next(t, ws, FrameMetrics)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgSimulate}))
	f := next(t, ws, FrameError)
	assert.Equal(t, "request", f.Error.Field)

	trials := 250
	req := SimulateRequest{Profile: scenarioProfile(), Trials: &trials}
	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgSimulate, Request: &req}))
	f = next(t, ws, FrameError)
	assert.Equal(t, string(models.StatusInvalidInput), f.Error.Error)
	assert.Equal(t, "trials", f.Error.Field)

	zero := `{"type":"simulate","request":{"profile":{"accountSize":10000,"profitTarget":10,"passDays":14,"winRate":60,"riskRewardRatio":1.5,"riskPerTrade":1,"tradesPerDay":3},"trials":0}}`
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(zero)))
	f = next(t, ws, FrameError)
	assert.Equal(t, string(models.StatusInvalidInput), f.Error.Error)
	assert.Equal(t, "trials", f.Error.Field, "explicit zero trials is rejected, not defaulted")

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	f = next(t, ws, FrameError)
	assert.Equal(t, "message", f.Error.Field)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: "dance"}))
	f = next(t, ws, FrameError)
	assert.Equal(t, "type", f.Error.Field)
}

func TestSubmitRateLimit(t *testing.T) {
	ws := dial(t, Config{DefaultTrials: 100, SubmitRate: 0.001, SubmitBurst: 1})
	next(t, ws, FrameMetrics)

	req := SimulateRequest{Profile: scenarioProfile(), Seed: 7}
	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgSimulate, Request: &req}))
	next(t, ws, FrameStarted)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgSimulate, Request: &req}))
	f := next(t, ws, FrameError)
	assert.Equal(t, "rate_limited", f.Error.Error)
}

func TestProfileEditsAreDebounced(t *testing.T) {
	ws := dial(t, Config{DebounceDelay: 300 * time.Millisecond})
	next(t, ws, FrameMetrics)

	p := scenarioProfile()
	for _, wr := range []float64{50, 55, 60} {
		p.WinRate = wr
		profile := p
		require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgProfile, Profile: &profile}))
	}

	f := next(t, ws, FrameMetrics)
	require.NotNil(t, f.Snapshot)
	assert.Equal(t, uint64(2), f.Snapshot.Version)
	assert.Equal(t, 60.0, f.Snapshot.Profile.WinRate)
}

func TestStyleAndSubmit(t *testing.T) {
	ws := dial(t, Config{})
	next(t, ws, FrameMetrics)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgStyle, Style: "aggressive"}))
	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgSubmit}))

	f := next(t, ws, FrameSaved)
	require.NotNil(t, f.Snapshot)
	assert.Equal(t, models.RiskStyleAggressive, f.Snapshot.Style)
	assert.Equal(t, models.RiskStyleAggressive.PresetRiskPerTrade(), f.Snapshot.Profile.RiskPerTrade)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgStyle, Style: "reckless"}))
	e := next(t, ws, FrameError)
	assert.Equal(t, string(models.StatusInvalidInput), e.Error.Error)
}

func TestCancel(t *testing.T) {
	ws := dial(t, Config{})
	next(t, ws, FrameMetrics)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgCancel}))
	f := next(t, ws, FrameCancelled)
	assert.Equal(t, uint64(1), f.Generation)
}

func TestOriginCheck(t *testing.T) {
	url := serve(t, Config{AllowedOrigins: []string{"https://blueprint.example.com"}})

	ws, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://blueprint.example.com"}})
	require.NoError(t, err)
	next(t, ws, FrameMetrics)
	ws.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example.com"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ws, _, err = websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "non-browser clients send no Origin")
	ws.Close()
}

func TestOriginCheckerWildcard(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws/simulate", nil)
	r.Header.Set("Origin", "https://anywhere.example.com")

	assert.True(t, originChecker(nil)(r))
	assert.True(t, originChecker([]string{"*"})(r))
	assert.True(t, originChecker([]string{" https://Anywhere.example.com "})(r))
	assert.False(t, originChecker([]string{"https://blueprint.example.com"})(r))
}
