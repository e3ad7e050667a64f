package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/middleware"
	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/patrickwarner/campaigninsight/internal/views"
	"go.uber.org/zap"
)

const (
	maxUploadBytes     = 32 << 20
	healthCheckTimeout = 5 * time.Second
)

// viewAction applies one user action to a session. A non-nil channel is
// closed when the load the action started settles.
type viewAction func(sess *Session, r *http.Request) (<-chan struct{}, error)

// view serves the snapshot from state after applying act. With ?wait=1 the
// response is held until the started load settles.
func (s *Server) view(state func(*Session) any, act viewAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.Sessions.Get(mux.Vars(r)["id"])
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if act != nil {
			done, err := act(sess, r)
			if err != nil {
				middleware.LoggerFromRequest(r, s.Logger).Debug("rejected action", zap.Error(err))
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if done != nil && r.URL.Query().Get("wait") == "1" {
				select {
				case <-done:
				case <-r.Context().Done():
					return
				}
			}
		}
		writeJSON(w, http.StatusOK, state(sess))
	}
}

// CreateSession opens a session with fresh page views.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

// SessionState is every page snapshot of a session.
type SessionState struct {
	ID          string                 `json:"session_id"`
	Compare     views.CompareState     `json:"compare"`
	ROI         views.ROIState         `json:"roi"`
	Benchmark   views.BenchmarkState   `json:"benchmark"`
	AdvancedROI views.AdvancedROIState `json:"advanced_roi"`
}

// GetSession returns the snapshots of all pages in the session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Sessions.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, SessionState{
		ID:          sess.ID,
		Compare:     sess.Compare.Snapshot(),
		ROI:         sess.ROI.Snapshot(),
		Benchmark:   sess.Benchmark.Snapshot(),
		AdvancedROI: sess.AdvancedROI.Snapshot(),
	})
}

// DeleteSession ends a session and cancels its loads.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.Sessions.Delete(mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthHandler reports whether the analytics API is reachable.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status, err := s.Backend.HealthCheck(ctx)
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Warn("analytics API unhealthy", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":     "degraded",
			"api":        "unreachable",
			"api_status": analyticsapi.StatusCode(err),
			"error":      err.Error(),
			"sessions":   s.Sessions.Len(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"api":      status.Status,
		"sessions": s.Sessions.Len(),
	})
}

// FeaturesHandler exposes the feature flags the pages are rendered with.
func (s *Server) FeaturesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config.Features)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

type idBody struct {
	ClientID   *int `json:"client_id"`
	CampaignID *int `json:"campaign_id"`
}

func decodeClientID(r *http.Request) (int, error) {
	var body idBody
	if err := decodeJSON(r, &body); err != nil {
		return 0, err
	}
	if body.ClientID == nil {
		return 0, errors.New("client_id is required")
	}
	return *body.ClientID, nil
}

func decodeCampaignID(r *http.Request) (int, error) {
	var body idBody
	if err := decodeJSON(r, &body); err != nil {
		return 0, err
	}
	if body.CampaignID == nil {
		return 0, errors.New("campaign_id is required")
	}
	return *body.CampaignID, nil
}

// readUpload reads the named multipart file field into memory.
func readUpload(r *http.Request, field string) (models.Upload, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
	file, header, err := r.FormFile(field)
	if err != nil {
		return models.Upload{}, fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.Upload{}, fmt.Errorf("read %s: %w", field, err)
	}
	return models.Upload{Filename: header.Filename, Data: data}, nil
}

// ===== Compare =====

func compareState(s *Session) any { return s.Compare.Snapshot() }

func compareLoadClients(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.Compare.LoadClients(), nil
}

func compareSelectClient(s *Session, r *http.Request) (<-chan struct{}, error) {
	id, err := decodeClientID(r)
	if err != nil {
		return nil, err
	}
	return s.Compare.SelectClient(id), nil
}

func compareSelectPrimary(s *Session, r *http.Request) (<-chan struct{}, error) {
	id, err := decodeCampaignID(r)
	if err != nil {
		return nil, err
	}
	return s.Compare.SelectPrimaryCampaign(id), nil
}

func compareSelectComparison(s *Session, r *http.Request) (<-chan struct{}, error) {
	id, err := decodeCampaignID(r)
	if err != nil {
		return nil, err
	}
	s.Compare.SelectComparisonCampaign(id)
	return nil, nil
}

func compareRun(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.Compare.Compare(), nil
}

// ===== ROI =====

func roiState(s *Session) any { return s.ROI.Snapshot() }

// roiInputsBody replaces the manual figures and campaign. PastedText is only
// applied when present so that saving figures keeps an uploaded file.
type roiInputsBody struct {
	CampaignCost    float64 `json:"campaign_cost"`
	Revenue         float64 `json:"revenue"`
	AdditionalCosts float64 `json:"additional_costs"`
	CampaignID      *int    `json:"campaign_id"`
	PastedText      *string `json:"pasted_text"`
}

func roiSetInputs(s *Session, r *http.Request) (<-chan struct{}, error) {
	var body roiInputsBody
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}
	s.ROI.SetCampaignCost(body.CampaignCost)
	s.ROI.SetRevenue(body.Revenue)
	s.ROI.SetAdditionalCosts(body.AdditionalCosts)
	s.ROI.SetCampaignID(body.CampaignID)
	if body.PastedText != nil {
		s.ROI.SetPastedText(*body.PastedText)
	}
	return nil, nil
}

func roiSetFile(s *Session, r *http.Request) (<-chan struct{}, error) {
	upload, err := readUpload(r, "file")
	if err != nil {
		return nil, err
	}
	s.ROI.SetFile(upload)
	return nil, nil
}

func roiClearFile(s *Session, _ *http.Request) (<-chan struct{}, error) {
	s.ROI.ClearFile()
	return nil, nil
}

func roiCalculate(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.ROI.Calculate(), nil
}

// ===== Benchmark =====

func benchmarkState(s *Session) any { return s.Benchmark.Snapshot() }

func benchmarkLoadClients(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.Benchmark.LoadClients(), nil
}

func benchmarkSelectClient(s *Session, r *http.Request) (<-chan struct{}, error) {
	id, err := decodeClientID(r)
	if err != nil {
		return nil, err
	}
	return s.Benchmark.SelectClient(id), nil
}

func benchmarkSelectCampaign(s *Session, r *http.Request) (<-chan struct{}, error) {
	id, err := decodeCampaignID(r)
	if err != nil {
		return nil, err
	}
	s.Benchmark.SelectCampaign(id)
	return nil, nil
}

func benchmarkSetFilters(s *Session, r *http.Request) (<-chan struct{}, error) {
	var f views.BenchmarkFilters
	if err := decodeJSON(r, &f); err != nil {
		return nil, err
	}
	s.Benchmark.SetFilters(f)
	return nil, nil
}

func benchmarkRun(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.Benchmark.Run(), nil
}

// ===== Advanced ROI =====

func advancedState(s *Session) any { return s.AdvancedROI.Snapshot() }

func advancedSetMode(s *Session, r *http.Request) (<-chan struct{}, error) {
	var body struct {
		Mode views.AdvancedROIMode `json:"mode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}
	switch body.Mode {
	case views.ModeSimple, views.ModeCampaignMatched:
	default:
		return nil, fmt.Errorf("unknown mode %q", body.Mode)
	}
	s.AdvancedROI.SetMode(body.Mode)
	return nil, nil
}

func advancedSetSimple(s *Session, r *http.Request) (<-chan struct{}, error) {
	var in views.SimpleROIInputs
	if err := decodeJSON(r, &in); err != nil {
		return nil, err
	}
	s.AdvancedROI.SetSimpleInputs(in)
	return nil, nil
}

func advancedLoadClients(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.AdvancedROI.LoadClients(), nil
}

func advancedSelectClient(s *Session, r *http.Request) (<-chan struct{}, error) {
	id, err := decodeClientID(r)
	if err != nil {
		return nil, err
	}
	return s.AdvancedROI.SelectClient(id), nil
}

func advancedSelectCampaign(s *Session, r *http.Request) (<-chan struct{}, error) {
	id, err := decodeCampaignID(r)
	if err != nil {
		return nil, err
	}
	s.AdvancedROI.SelectCampaign(id)
	return nil, nil
}

func advancedSetCost(s *Session, r *http.Request) (<-chan struct{}, error) {
	var body struct {
		CampaignCost float64 `json:"campaign_cost"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}
	s.AdvancedROI.SetMatchedCampaignCost(body.CampaignCost)
	return nil, nil
}

func advancedSetSalesFile(s *Session, r *http.Request) (<-chan struct{}, error) {
	upload, err := readUpload(r, "sales_file")
	if err != nil {
		return nil, err
	}
	s.AdvancedROI.SetSalesFile(upload)
	return nil, nil
}

func advancedClearSalesFile(s *Session, _ *http.Request) (<-chan struct{}, error) {
	s.AdvancedROI.ClearSalesFile()
	return nil, nil
}

func advancedCalculateSimple(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.AdvancedROI.CalculateSimple(), nil
}

func advancedCalculateMatched(s *Session, _ *http.Request) (<-chan struct{}, error) {
	return s.AdvancedROI.CalculateCampaignMatched(), nil
}
