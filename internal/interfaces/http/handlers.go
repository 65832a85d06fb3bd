package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sawpanic/titanguardian/internal/domain/guardian"
	"github.com/sawpanic/titanguardian/internal/domain/risk"
)

// signalRequest is the POST /v1/signal body: the network latency observed
// on this call and an optional neural recommendation to arbitrate against
// the Math Guardian's own verdict. Error carries an explicit failure
// report from the upstream neural collaborator rather than a verdict;
// it is what trips the neural circuit breaker.
type signalRequest struct {
	NetworkLatencyMs int `json:"network_latency_ms"`
	Neural           *struct {
		Action     string  `json:"action"`
		Confidence float64 `json:"confidence"`
		Error      string  `json:"error,omitempty"`
	} `json:"neural,omitempty"`
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var neural *guardian.NeuralInput
	if reqNeural := req.Neural; reqNeural != nil {
		neural = s.neuralGate.Fetch(func() (guardian.NeuralInput, error) {
			if reqNeural.Error != "" {
				return guardian.NeuralInput{}, errors.New(reqNeural.Error)
			}
			return guardian.NeuralInput{
				Action:     guardian.Action(reqNeural.Action),
				Confidence: reqNeural.Confidence,
			}, nil
		})
	}

	s.mu.Lock()
	before := len(s.guardian.AuditLines())
	start := time.Now()
	sig := s.guardian.GenerateSignal(req.NetworkLatencyMs, neural)
	s.reg.ScoringLatency.Observe(time.Since(start).Seconds())
	s.reg.SignalsEmitted.WithLabelValues(string(sig.Action), string(sig.Source)).Inc()
	s.reg.ObserveKillSwitch(s.guardian.IsHalted())
	s.publishNewAuditLines(before)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, sig)
}

type tickRequest struct {
	Price       float64 `json:"price"`
	BidVolume   float64 `json:"bid_volume"`
	AskVolume   float64 `json:"ask_volume"`
	TimestampMs int64   `json:"timestamp_ms"`
}

func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "tick ingest rate exceeded"})
		return
	}

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	before := len(s.guardian.AuditLines())
	s.guardian.IngestTick(req.Price, req.BidVolume, req.AskVolume, req.TimestampMs)
	s.publishNewAuditLines(before)
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ingested"})
}

type killSwitchActivateRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleKillSwitchActivate(w http.ResponseWriter, r *http.Request) {
	var req killSwitchActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Reason == "" {
		req.Reason = "operator requested"
	}

	s.mu.Lock()
	before := len(s.guardian.AuditLines())
	s.guardian.ActivateKillSwitch(req.Reason)
	s.reg.ObserveKillSwitch(true)
	s.publishNewAuditLines(before)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "kill switch active"})
}

type killSwitchDeactivateRequest struct {
	OperatorSignature string `json:"operator_signature"`
}

func (s *Server) handleKillSwitchDeactivate(w http.ResponseWriter, r *http.Request) {
	var req killSwitchDeactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OperatorSignature == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "operator_signature is required"})
		return
	}

	s.mu.Lock()
	before := len(s.guardian.AuditLines())
	s.guardian.DeactivateKillSwitch(req.OperatorSignature)
	s.reg.ObserveKillSwitch(false)
	s.publishNewAuditLines(before)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "kill switch deactivated"})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.guardian.GetAuditLog()
	s.mu.Unlock()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to serialize audit log"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleAuditStream upgrades to a websocket and pushes every audit line
// appended from this point on. It never replays history, GET /v1/audit
// is the snapshot read, this is the live tap.
func (s *Server) handleAuditStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("audit stream upgrade failed")
		return
	}
	defer conn.Close()
	// The hijacked connection inherits the http.Server's WriteTimeout;
	// clear it so this long-lived stream isn't force-closed after 5s.
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	ch := s.tail.subscribe()
	defer s.tail.unsubscribe(ch)

	for line := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return
		}
	}
}

type ladderLevel struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

type fastOFIRequest struct {
	Bids []ladderLevel `json:"bids"`
	Asks []ladderLevel `json:"asks"`
}

func (s *Server) handleFastOFI(w http.ResponseWriter, r *http.Request) {
	var req fastOFIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	bids := make([]guardian.LadderLevel, len(req.Bids))
	for i, b := range req.Bids {
		bids[i] = guardian.LadderLevel{Price: b.Price, Volume: b.Volume}
	}
	asks := make([]guardian.LadderLevel, len(req.Asks))
	for i, a := range req.Asks {
		asks[i] = guardian.LadderLevel{Price: a.Price, Volume: a.Volume}
	}

	ofi := guardian.FastOFI(bids, asks)
	writeJSON(w, http.StatusOK, map[string]float64{"ofi": ofi})
}

// validateRequest carries a proposed trade intent in plain (unscaled)
// units; the handler scales it into risk.Facts itself so callers never
// need to know the fixed-point convention.
type validateRequest struct {
	Side          string  `json:"side"`
	Size          float64 `json:"size"`
	Volatility    float64 `json:"volatility"`
	OFIScore      float64 `json:"ofi_score"`
	MarketTrend   string  `json:"market_trend"`
	Adx           float64 `json:"adx"`
	Rsi           float64 `json:"rsi"`
	PositionCount int     `json:"position_count"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	facts := risk.Facts{
		Side:            risk.Side(req.Side),
		SizeX1000:       risk.ScaleX1000(req.Size),
		VolatilityX1000: risk.ScaleX1000(req.Volatility),
		OFIScoreX1000:   risk.ScaleX1000(req.OFIScore),
		MarketTrend:     risk.Trend(req.MarketTrend),
		AdxX100:         risk.ScaleX100(req.Adx),
		RsiX100:         risk.ScaleX100(req.Rsi),
		PositionCount:   req.PositionCount,
	}

	s.mu.Lock()
	cfg := s.riskCfg
	s.mu.Unlock()

	reason, blocked := risk.Evaluate(facts, cfg)
	if blocked {
		s.reg.RiskBlocks.WithLabelValues(reason).Inc()
	} else {
		reason = "Approved by Silicon Guardian"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"allowed": !blocked,
		"reason":  reason,
	})
}

type updatePositionRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

func (s *Server) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req updatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := s.portfolio.UpdatePosition(req.Symbol, req.Quantity, req.Price); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	data, err := s.portfolio.GetStateJSON()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	halted := s.guardian.IsHalted()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"halted":      halted,
		"neural_gate": s.neuralGate.State(),
	})
}

// publishNewAuditLines fans out every audit line appended since before to
// live audit-stream subscribers. Caller must hold s.mu.
func (s *Server) publishNewAuditLines(before int) {
	lines := s.guardian.AuditLines()
	for _, line := range lines[before:] {
		s.tail.publish(line)
	}
}
