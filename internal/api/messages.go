package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nyashahama/financial-agent-backend/internal/finance"
	"github.com/nyashahama/financial-agent-backend/internal/narrative"
)

// inboundMessage is the envelope the core agent posts to /receive_message.
type inboundMessage struct {
	AgentType     string                  `json:"agent_type"`
	BusinessData  finance.BusinessProfile `json:"business_data"`
	StrategicPlan finance.StrategicPlan   `json:"strategic_plan"`
	Timestamp     string                  `json:"timestamp"`
	RequestID     string                  `json:"request_id"`
}

type financialResponse struct {
	AgentType         string             `json:"agent_type"`
	FinancialAnalysis narrative.Analysis `json:"financial_analysis"`
	Timestamp         string             `json:"timestamp"`
	RequestID         string             `json:"request_id"`
}

// POST /receive_message
//
// Validates the envelope, computes the baseline report and merges the
// narrative. A completion failure still answers 200 with the fallback
// report; only a malformed envelope produces 500.
func (s *Server) handleReceiveMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := s.parseMessage(w, r)
	if err != nil {
		s.logger.Warn("receive_message: rejected",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		respondDetail(w, http.StatusInternalServerError, "Financial analysis failed: "+err.Error())
		return
	}

	// The analysis runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	analysis := s.analyzer.Analyze(ctx, msg.BusinessData, msg.StrategicPlan)

	s.logger.Info("receive_message: analysis served",
		"request_id", msg.RequestID,
		"business_type", msg.BusinessData.BusinessType,
		"degraded", analysis.Degraded(),
	)

	respond(w, http.StatusOK, financialResponse{
		AgentType:         msg.AgentType,
		FinancialAnalysis: analysis,
		Timestamp:         s.timestamp(),
		RequestID:         msg.RequestID,
	})
}

func (s *Server) parseMessage(w http.ResponseWriter, r *http.Request) (inboundMessage, error) {
	raw, err := readBody(w, r)
	if err != nil {
		return inboundMessage{}, err
	}
	if err := validateMessage(raw); err != nil {
		return inboundMessage{}, err
	}

	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return inboundMessage{}, fmt.Errorf("decode message: %w", err)
	}
	return msg, nil
}
