package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/apperrors"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

func addInventoryRequest(pieceID uuid.UUID, body string) *http.Request {
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/pieces/"+pieceID.String()+"/inventory", strings.NewReader(body)), testOwnerIdentity())
	req.SetPathValue("id", pieceID.String())
	return req
}

func TestInventoryHandler_Add_Created(t *testing.T) {
	svc := &mockInventoryService{}
	handler := NewInventoryHandler(svc, zap.NewNop())

	pieceID := uuid.New()
	rec := httptest.NewRecorder()
	handler.Add(rec, addInventoryRequest(pieceID, `{"quantity": 3}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, pieceID, svc.capturedPieceID)
	assert.Equal(t, 3, svc.capturedQuantity)

	var response struct {
		Data AddInventoryResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Data.Created)
	assert.Equal(t, 3, response.Data.Item.Quantity)
}

func TestInventoryHandler_Add_MergedIsOK(t *testing.T) {
	svc := &mockInventoryService{
		addResult: &services.AddResult{
			Item:    &models.InventoryItem{Quantity: 5},
			Created: false,
		},
	}
	handler := NewInventoryHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Add(rec, addInventoryRequest(uuid.New(), `{"quantity": 2}`))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInventoryHandler_Add_InvalidQuantity(t *testing.T) {
	svc := &mockInventoryService{err: apperrors.NewValidation("quantity", "must be at least 1")}
	handler := NewInventoryHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Add(rec, addInventoryRequest(uuid.New(), `{"quantity": 0}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryHandler_Add_InvalidBody(t *testing.T) {
	handler := NewInventoryHandler(&mockInventoryService{}, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Add(rec, addInventoryRequest(uuid.New(), `quantity=3`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryHandler_List_PassesSearch(t *testing.T) {
	svc := &mockInventoryService{
		items: []*models.InventoryItem{{PieceName: "Benchy", Quantity: 4}},
	}
	handler := NewInventoryHandler(svc, zap.NewNop())

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/inventory?search=ben", nil), testOwnerIdentity())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ben", svc.capturedSearch)

	var response struct {
		Data InventoryListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, response.Data.Total)
	assert.Equal(t, "Benchy", response.Data.Items[0].PieceName)
}
