package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-sched/admin-api/internal/models"
	"github.com/campus-sched/admin-api/internal/service"
	appErrors "github.com/campus-sched/admin-api/pkg/errors"
)

type roomServiceMock struct {
	rooms         []models.Room
	room          *models.Room
	err           error
	exportPayload []byte
	exportType    string
}

func (m *roomServiceMock) List(ctx context.Context) ([]models.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rooms, nil
}

func (m *roomServiceMock) Create(ctx context.Context, req service.RoomRequest) (*models.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.room, nil
}

func (m *roomServiceMock) Update(ctx context.Context, id string, req service.RoomRequest) (*models.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.room, nil
}

func (m *roomServiceMock) Delete(ctx context.Context, id string) error {
	return m.err
}

func (m *roomServiceMock) Export(ctx context.Context, format string) ([]byte, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return m.exportPayload, m.exportType, nil
}

func TestRoomHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(&roomServiceMock{rooms: []models.Room{{ID: "r1", RoomID: "A-101"}}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/rooms", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Room `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "A-101", envelope.Data[0].RoomID)
}

func TestRoomHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(&roomServiceMock{room: &models.Room{ID: "r1", RoomID: "A-101"}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.RoomRequest{RoomID: "A-101", Building: "Science Hall", Capacity: 40, RoomType: "lecture"})
	req, _ := http.NewRequest(http.MethodPost, "/admin/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRoomHandlerCreateDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(&roomServiceMock{err: appErrors.Clone(appErrors.ErrDuplicateKey, "room id already exists")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.RoomRequest{RoomID: "A-101", Building: "Science Hall", RoomType: "lecture"})
	req, _ := http.NewRequest(http.MethodPost, "/admin/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, envelope.Error.Code)
	assert.Equal(t, "room id already exists", envelope.Error.Message)
}

func TestRoomHandlerUpdateNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(&roomServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "room not found")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.RoomRequest{RoomID: "A-101", Building: "Science Hall", RoomType: "lecture"})
	req, _ := http.NewRequest(http.MethodPut, "/admin/rooms/missing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoomHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(&roomServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/admin/rooms/r1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "r1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "room deleted successfully", envelope.Data.Message)
}

func TestRoomHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(&roomServiceMock{exportPayload: []byte("Room ID,Building\n"), exportType: "text/csv"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/rooms/export?format=csv", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Room ID")
}
