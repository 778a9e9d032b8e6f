package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

// Mutations answer with the stored entity. A persistence failure is reported
// as 503 even though the in-memory state already changed.

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	txn, ok := s.store.Transaction(id)
	if !ok {
		handleError(w, r, notFound("transaction", id))
		return
	}
	writeJSON(w, r, http.StatusOK, txn)
}

func (s *Server) addTransaction(w http.ResponseWriter, r *http.Request) {
	var draft model.TransactionDraft
	if err := decodeBody(r, &draft); err != nil {
		handleError(w, r, err)
		return
	}
	if draft.Status == "" {
		draft.Status = model.StatusCompleted
	}
	if err := draft.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	id, err := s.store.AddTransaction(r.Context(), draft)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger(r).Info("transaction added", "id", id)
	txn, _ := s.store.Transaction(id)
	writeJSON(w, r, http.StatusCreated, txn)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Transaction(id); !ok {
		handleError(w, r, notFound("transaction", id))
		return
	}
	var patch model.TransactionPatch
	if err := decodeBody(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.store.UpdateTransaction(r.Context(), id, patch); err != nil {
		handleError(w, r, err)
		return
	}
	txn, _ := s.store.Transaction(id)
	writeJSON(w, r, http.StatusOK, txn)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Transaction(id); !ok {
		handleError(w, r, notFound("transaction", id))
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addCategory(w http.ResponseWriter, r *http.Request) {
	var draft model.CategoryDraft
	if err := decodeBody(r, &draft); err != nil {
		handleError(w, r, err)
		return
	}
	if draft.Status == "" {
		draft.Status = model.CategoryActive
	}
	if err := draft.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	id, err := s.store.AddCategory(r.Context(), draft)
	if err != nil {
		handleError(w, r, err)
		return
	}
	cat, _ := s.store.Category(id)
	writeJSON(w, r, http.StatusCreated, cat)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Category(id); !ok {
		handleError(w, r, notFound("category", id))
		return
	}
	var patch model.CategoryPatch
	if err := decodeBody(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.store.UpdateCategory(r.Context(), id, patch); err != nil {
		handleError(w, r, err)
		return
	}
	cat, _ := s.store.Category(id)
	writeJSON(w, r, http.StatusOK, cat)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Category(id); !ok {
		handleError(w, r, notFound("category", id))
		return
	}
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addGoal(w http.ResponseWriter, r *http.Request) {
	var draft model.GoalDraft
	if err := decodeBody(r, &draft); err != nil {
		handleError(w, r, err)
		return
	}
	if draft.Status == "" {
		draft.Status = model.GoalInProgress
	}
	if err := draft.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	id, err := s.store.AddGoal(r.Context(), draft)
	if err != nil {
		handleError(w, r, err)
		return
	}
	goal, _ := s.store.Goal(id)
	writeJSON(w, r, http.StatusCreated, goal)
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Goal(id); !ok {
		handleError(w, r, notFound("goal", id))
		return
	}
	var patch model.GoalPatch
	if err := decodeBody(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.store.UpdateGoal(r.Context(), id, patch); err != nil {
		handleError(w, r, err)
		return
	}
	goal, _ := s.store.Goal(id)
	writeJSON(w, r, http.StatusOK, goal)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Goal(id); !ok {
		handleError(w, r, notFound("goal", id))
		return
	}
	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type contributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) contributeToGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Goal(id); !ok {
		handleError(w, r, notFound("goal", id))
		return
	}
	var req contributionRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if !req.Amount.IsPositive() {
		handleError(w, r, badRequest("amount must be positive"))
		return
	}
	if err := s.store.ContributeToGoal(r.Context(), id, req.Amount); err != nil {
		handleError(w, r, err)
		return
	}
	goal, _ := s.store.Goal(id)
	writeJSON(w, r, http.StatusOK, goal)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.store.UpdateUser(r.Context(), patch); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.store.Snapshot().User)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch model.SettingsPatch
	if err := decodeBody(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.store.UpdateSettings(r.Context(), patch); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.store.Snapshot().Settings)
}
