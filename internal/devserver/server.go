// Package devserver is an in-memory stand-in for the remote Motivatchi API,
// used for local development and demos (`tchi serve`). It mirrors the
// production contract: task CRUD, the complete/mark_incomplete reward
// endpoints, and the pet health endpoint.
package devserver

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/motivatchi/tchi/internal/core/task"
)

const (
	maxHealth  = 5.0
	xpPerLevel = 100
)

// rewards maps priority to (xp, coins) per the production reward table.
var rewards = map[task.Priority][2]int{
	task.PriorityLow:    {3, 10},
	task.PriorityMedium: {5, 20},
	task.PriorityHigh:   {10, 30},
}

// Server holds the in-memory state behind the stub API.
type Server struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]task.Task
	order  []int64

	coins  int
	xp     int
	level  int
	health float64
}

// New creates a Server with a fresh pet.
func New() *Server {
	return &Server{
		nextID: 1,
		tasks:  map[int64]task.Task{},
		level:  1,
		health: maxHealth,
	}
}

// Handler returns the HTTP handler serving the stub API.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	tasks := r.Group("/api/tasks")
	tasks.GET("/", s.listTasks)
	tasks.POST("/", s.createTask)
	tasks.PATCH("/:id/", s.updateTask)
	tasks.DELETE("/:id/", s.deleteTask)
	tasks.POST("/:id/complete/", s.completeTask)
	tasks.POST("/:id/mark_incomplete/", s.markIncomplete)

	r.GET("/api/tamagotchi/health/", s.getHealth)
	r.POST("/api/tamagotchi/health/", s.adjustHealth)

	return r
}

func (s *Server) listTasks(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	c.JSON(http.StatusOK, out)
}

type createRequest struct {
	Name     string        `json:"name" binding:"required"`
	Category string        `json:"category"`
	Deadline task.Date     `json:"deadline"`
	Priority task.Priority `json:"priority"`
	Status   task.Status   `json:"status"`
}

func (s *Server) createTask(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !req.Priority.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid priority"})
		return
	}

	status := req.Status
	if status == "" {
		status = task.StatusInProgress
	}

	s.mu.Lock()
	t := task.Task{
		ID:       s.nextID,
		Name:     req.Name,
		Category: req.Category,
		Deadline: req.Deadline,
		Priority: req.Priority,
		Status:   status,
	}
	s.nextID++
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, t)
}

type patchRequest struct {
	Name     *string        `json:"name"`
	Category *string        `json:"category"`
	Deadline *task.Date     `json:"deadline"`
	Priority *task.Priority `json:"priority"`
	Status   *task.Status   `json:"status"`
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, found := s.tasks[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found."})
		return
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Deadline != nil {
		t.Deadline = *req.Deadline
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid priority"})
			return
		}
		t.Priority = *req.Priority
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid status"})
			return
		}
		t.Status = *req.Status
	}

	s.tasks[id] = t
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.tasks[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found."})
		return
	}

	delete(s.tasks, id)
	kept := s.order[:0]
	for _, oid := range s.order {
		if oid != id {
			kept = append(kept, oid)
		}
	}
	s.order = kept

	c.Status(http.StatusNoContent)
}

func (s *Server) completeTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, found := s.tasks[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found."})
		return
	}
	if t.Status == task.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Task already completed."})
		return
	}

	t.Status = task.StatusCompleted
	s.tasks[id] = t

	gain := rewards[t.Priority]
	s.coins += gain[1]
	s.xp += gain[0]
	for s.xp >= xpPerLevel {
		s.xp -= xpPerLevel
		s.level++
	}
	s.health = min(s.health+1, maxHealth)

	c.JSON(http.StatusOK, gin.H{
		"xp":     s.xp,
		"level":  s.level,
		"coins":  s.coins,
		"health": s.health,
	})
}

func (s *Server) markIncomplete(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, found := s.tasks[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found."})
		return
	}
	if t.Status != task.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Task is not completed."})
		return
	}

	t.Status = task.StatusInProgress
	s.tasks[id] = t

	loss := rewards[t.Priority]
	s.coins = max(0, s.coins-loss[1])
	s.xp = max(0, s.xp-loss[0])

	c.JSON(http.StatusOK, gin.H{
		"xp":     s.xp,
		"level":  s.level,
		"coins":  s.coins,
		"health": s.health,
	})
}

func (s *Server) getHealth(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"health": s.health})
}

type healthRequest struct {
	Action string `json:"action"`
}

func (s *Server) adjustHealth(c *gin.Context) {
	var req healthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Action {
	case "task_completed":
		s.health = min(s.health+1, maxHealth)
	case "task_missed":
		s.health = max(s.health-1, 0)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid action."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"health": s.health})
}

func (s *Server) taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid task id"})
		return 0, false
	}
	return id, true
}
