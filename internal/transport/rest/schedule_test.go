package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lokon/config"
	"lokon/internal/domain"
	"lokon/internal/service"
)

type stubScheduleService struct {
	service.ScheduleService
	blackouts map[int64]*domain.BlackoutPeriod
	deleted   []int64
}

func (s *stubScheduleService) GetBlackout(ctx context.Context, id int64) (*domain.BlackoutPeriod, error) {
	blackout, ok := s.blackouts[id]
	if !ok {
		return nil, fmt.Errorf("период недоступности с id %d: %w", id, domain.ErrNotFound)
	}
	return blackout, nil
}

func (s *stubScheduleService) DeleteBlackout(ctx context.Context, id int64) error {
	if _, ok := s.blackouts[id]; !ok {
		return fmt.Errorf("период недоступности с id %d: %w", id, domain.ErrNotFound)
	}
	delete(s.blackouts, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubMasterService struct {
	service.MasterService
	masters map[int64]*domain.Master
}

func (s *stubMasterService) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	master, ok := s.masters[id]
	if !ok {
		return nil, fmt.Errorf("мастер с id %d: %w", id, domain.ErrNotFound)
	}
	return master, nil
}

func newBlackoutHandler() (*Handler, *stubScheduleService) {
	now := time.Now().UTC()

	schedule := &stubScheduleService{blackouts: map[int64]*domain.BlackoutPeriod{
		7: {ID: 7, MasterID: 1, StartsAt: now, EndsAt: now.Add(2 * time.Hour)},
	}}
	masters := &stubMasterService{masters: map[int64]*domain.Master{
		1: {ID: 1, UserID: 100, IsActive: true},
		2: {ID: 2, UserID: 200, IsActive: true},
	}}

	services := &service.Services{Schedule: schedule, Master: masters}
	return NewHandler(services, zap.NewNop(), &config.Config{}), schedule
}

func deleteBlackoutRequest(h *Handler, blackoutID, userID int64, role domain.UserRole) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/blackouts/:id", func(c *gin.Context) {
		c.Set(userIDCtx, userID)
		c.Set(userRoleCtx, role)
		h.deleteBlackout(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/blackouts/"+strconv.FormatInt(blackoutID, 10), nil)
	router.ServeHTTP(w, req)
	return w
}

func TestDeleteBlackoutOwner(t *testing.T) {
	h, schedule := newBlackoutHandler()

	w := deleteBlackoutRequest(h, 7, 100, domain.UserRoleMaster)
	if w.Code != http.StatusNoContent {
		t.Fatalf("владелец: ожидался 204, получен %d", w.Code)
	}
	if len(schedule.deleted) != 1 || schedule.deleted[0] != 7 {
		t.Errorf("период должен быть удален, удалены %v", schedule.deleted)
	}
}

func TestDeleteBlackoutForeignMaster(t *testing.T) {
	h, schedule := newBlackoutHandler()

	// Мастер 2 пытается удалить период мастера 1.
	w := deleteBlackoutRequest(h, 7, 200, domain.UserRoleMaster)
	if w.Code != http.StatusForbidden {
		t.Fatalf("чужой мастер: ожидался 403, получен %d", w.Code)
	}
	if len(schedule.deleted) != 0 {
		t.Errorf("чужой период не должен удаляться, удалены %v", schedule.deleted)
	}
}

func TestDeleteBlackoutAdmin(t *testing.T) {
	h, schedule := newBlackoutHandler()

	w := deleteBlackoutRequest(h, 7, 999, domain.UserRoleAdmin)
	if w.Code != http.StatusNoContent {
		t.Fatalf("админ: ожидался 204, получен %d", w.Code)
	}
	if len(schedule.deleted) != 1 {
		t.Errorf("период должен быть удален, удалены %v", schedule.deleted)
	}
}

func TestDeleteBlackoutNotFound(t *testing.T) {
	h, _ := newBlackoutHandler()

	w := deleteBlackoutRequest(h, 42, 100, domain.UserRoleMaster)
	if w.Code != http.StatusNotFound {
		t.Fatalf("отсутствующий период: ожидался 404, получен %d", w.Code)
	}
}
