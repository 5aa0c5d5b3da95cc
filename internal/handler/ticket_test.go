package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/psds-microservice/helpdesk-service/internal/model"
	"github.com/psds-microservice/helpdesk-service/internal/notify"
	"github.com/psds-microservice/helpdesk-service/internal/service"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Ticket{}, &model.Interaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cache := notify.NewCache("", "")
	userHandler := NewUserHandler(service.NewUserService(db, cache))
	ticketHandler := NewTicketHandler(service.NewTicketService(db, cache, nil))

	r := gin.New()
	r.POST("/auth/register", userHandler.Register)
	r.POST("/auth/login", userHandler.Login)
	r.GET("/me", userHandler.Me)
	r.GET("/tickets", ticketHandler.List)
	r.POST("/tickets", ticketHandler.Create)
	r.GET("/tickets/:id", ticketHandler.Get)
	r.PUT("/tickets/:id/estado", ticketHandler.ChangeState)
	r.PUT("/tickets/:id/prioridad", ticketHandler.ChangePriority)
	r.GET("/tickets/:id/historial", ticketHandler.History)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, name, email, role string) uint64 {
	t.Helper()
	w := doJSON(t, r, "POST", "/auth/register", map[string]string{
		"nombre": name, "email": email, "rol": role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		ID uint64 `json:"id_usuario"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.ID
}

// Full lifecycle: operator creates a ticket for a registered client,
// moves it to in_progress twice, and the audit trail records the
// creation plus exactly one transition.
func TestTicketLifecycleScenario(t *testing.T) {
	r, _ := setupTestRouter(t)

	registerUser(t, r, "Ana", "ana@x.com", "client")
	opID := registerUser(t, r, "Oscar", "oscar@x.com", "operator")

	w := doJSON(t, r, "POST", fmt.Sprintf("/tickets?operator_id=%d", opID), map[string]string{
		"client_email": "ana@x.com",
		"asunto":       "No internet",
		"prioridad":    "high",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create ticket: status %d, body %s", w.Code, w.Body.String())
	}
	var ticket model.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &ticket); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if ticket.State != model.TicketStateOpen {
		t.Errorf("created ticket estado = %q, want open", ticket.State)
	}
	if ticket.Priority != model.TicketPriorityHigh {
		t.Errorf("created ticket prioridad = %q, want high", ticket.Priority)
	}

	for i := 0; i < 2; i++ {
		w = doJSON(t, r, "PUT", fmt.Sprintf("/tickets/%d/estado?operator_id=%d", ticket.ID, opID), map[string]string{
			"estado": "in_progress",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("change estado (%d): status %d, body %s", i, w.Code, w.Body.String())
		}
	}

	w = doJSON(t, r, "GET", fmt.Sprintf("/tickets/%d/historial", ticket.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("historial: status %d", w.Code)
	}
	var history []model.Interaction
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode historial: %v", err)
	}
	// Creation record plus the single effective transition.
	if len(history) != 2 {
		t.Errorf("historial length = %d, want 2", len(history))
	}
}

func TestCreateTicketRejections(t *testing.T) {
	r, _ := setupTestRouter(t)
	clientID := registerUser(t, r, "Ana", "ana@x.com", "client")
	opID := registerUser(t, r, "Oscar", "oscar@x.com", "operator")

	// Client role cannot create.
	w := doJSON(t, r, "POST", fmt.Sprintf("/tickets?operator_id=%d", clientID), map[string]string{
		"client_email": "ana@x.com", "asunto": "x", "prioridad": "low",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("client create: status %d, want 403", w.Code)
	}

	// Unknown client email.
	w = doJSON(t, r, "POST", fmt.Sprintf("/tickets?operator_id=%d", opID), map[string]string{
		"client_email": "ghost@x.com", "asunto": "x", "prioridad": "low",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown client: status %d, want 404", w.Code)
	}

	// Unknown priority value never reaches the store.
	w = doJSON(t, r, "POST", fmt.Sprintf("/tickets?operator_id=%d", opID), map[string]string{
		"client_email": "ana@x.com", "asunto": "x", "prioridad": "urgent",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad priority: status %d, want 400", w.Code)
	}
}

func TestListTicketsByRole(t *testing.T) {
	r, _ := setupTestRouter(t)
	anaID := registerUser(t, r, "Ana", "ana@x.com", "client")
	registerUser(t, r, "Bob", "bob@x.com", "client")
	opID := registerUser(t, r, "Oscar", "oscar@x.com", "operator")

	for _, email := range []string{"ana@x.com", "bob@x.com", "ana@x.com"} {
		w := doJSON(t, r, "POST", fmt.Sprintf("/tickets?operator_id=%d", opID), map[string]string{
			"client_email": email, "asunto": "t-" + email, "prioridad": "medium",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create for %s: status %d", email, w.Code)
		}
	}

	w := doJSON(t, r, "GET", fmt.Sprintf("/tickets?user_id=%d&user_role=operator", opID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("operator list: status %d", w.Code)
	}
	var all []model.Ticket
	json.Unmarshal(w.Body.Bytes(), &all)
	if len(all) != 3 {
		t.Errorf("operator sees %d tickets, want 3", len(all))
	}

	w = doJSON(t, r, "GET", fmt.Sprintf("/tickets?user_id=%d&user_role=client", anaID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("client list: status %d", w.Code)
	}
	var mine []model.Ticket
	json.Unmarshal(w.Body.Bytes(), &mine)
	if len(mine) != 2 {
		t.Errorf("client sees %d tickets, want 2", len(mine))
	}
	for _, tk := range mine {
		if tk.UserID != anaID {
			t.Errorf("client list leaked ticket of user %d", tk.UserID)
		}
	}

	w = doJSON(t, r, "GET", fmt.Sprintf("/tickets?user_id=%d&user_role=admin", anaID), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("unknown role: status %d, want 403", w.Code)
	}
}

func TestHistoryNotFoundVersusEmpty(t *testing.T) {
	r, db := setupTestRouter(t)
	anaID := registerUser(t, r, "Ana", "ana@x.com", "client")

	w := doJSON(t, r, "GET", "/tickets/4242/historial", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown ticket historial: status %d, want 404", w.Code)
	}

	ticket := &model.Ticket{UserID: anaID, Subject: "Bare", State: model.TicketStateOpen, Priority: model.TicketPriorityLow}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	w = doJSON(t, r, "GET", fmt.Sprintf("/tickets/%d/historial", ticket.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("empty historial: status %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Errorf("empty historial body = %s, want []", body)
	}
}

func TestChangePriorityReturnsRefreshedTicket(t *testing.T) {
	r, _ := setupTestRouter(t)
	registerUser(t, r, "Ana", "ana@x.com", "client")
	opID := registerUser(t, r, "Oscar", "oscar@x.com", "operator")

	w := doJSON(t, r, "POST", fmt.Sprintf("/tickets?operator_id=%d", opID), map[string]string{
		"client_email": "ana@x.com", "asunto": "x", "prioridad": "low",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}
	var ticket model.Ticket
	json.Unmarshal(w.Body.Bytes(), &ticket)

	w = doJSON(t, r, "PUT", fmt.Sprintf("/tickets/%d/prioridad?operator_id=%d", ticket.ID, opID), map[string]string{
		"prioridad": "high",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change prioridad: status %d, body %s", w.Code, w.Body.String())
	}
	var updated model.Ticket
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Priority != model.TicketPriorityHigh {
		t.Errorf("returned prioridad = %q, want high", updated.Priority)
	}
}
