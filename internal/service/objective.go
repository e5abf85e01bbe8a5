package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
	"github.com/playdeckapp/playdeck-server/internal/id"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// ObjectiveService manages per-entry objectives and their tasks.
// All access is authorized through ownership of the library entry.
type ObjectiveService struct {
	store   store.Store
	library *LibraryService
	logger  *slog.Logger
}

// NewObjectiveService creates a new objective service.
func NewObjectiveService(store store.Store, library *LibraryService, logger *slog.Logger) *ObjectiveService {
	return &ObjectiveService{
		store:   store,
		library: library,
		logger:  logger,
	}
}

// CreateObjectiveRequest contains the fields for a new objective.
type CreateObjectiveRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
}

// UpdateObjectiveRequest contains the fields that can be patched on an objective.
type UpdateObjectiveRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	IsComplete  *bool   `json:"is_complete,omitempty"`
}

// CreateTaskRequest contains the fields for a new task under an objective.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

// UpdateTaskRequest contains the fields that can be patched on a task.
type UpdateTaskRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	IsComplete *bool   `json:"is_complete,omitempty"`
}

// CreateObjective adds an objective to a library entry the actor owns.
func (s *ObjectiveService) CreateObjective(ctx context.Context, actorID, entryID string, req CreateObjectiveRequest) (*domain.Objective, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.library.getOwnedEntry(ctx, actorID, entryID); err != nil {
		return nil, err
	}

	objectiveID, err := id.Generate("obj")
	if err != nil {
		return nil, fmt.Errorf("generate objective ID: %w", err)
	}

	objective := &domain.Objective{
		Syncable: domain.Syncable{
			ID: objectiveID,
		},
		LibraryEntryID: entryID,
		Title:          req.Title,
		Description:    req.Description,
	}
	objective.InitTimestamps()

	if err := s.store.CreateObjective(ctx, objective); err != nil {
		return nil, fmt.Errorf("create objective: %w", err)
	}

	return objective, nil
}

// ListObjectives returns an entry's objectives.
func (s *ObjectiveService) ListObjectives(ctx context.Context, actor *domain.User, entryID string) ([]*domain.Objective, error) {
	if _, err := s.library.GetEntry(ctx, actor, entryID); err != nil {
		return nil, err
	}

	objectives, err := s.store.ListObjectivesForEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	return objectives, nil
}

// getOwnedObjective loads an objective and verifies the actor owns the
// entry it belongs to.
func (s *ObjectiveService) getOwnedObjective(ctx context.Context, actorID, objectiveID string) (*domain.Objective, error) {
	objective, err := s.store.GetObjective(ctx, objectiveID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("objective not found")
		}
		return nil, fmt.Errorf("get objective: %w", err)
	}

	if _, err := s.library.getOwnedEntry(ctx, actorID, objective.LibraryEntryID); err != nil {
		return nil, err
	}

	return objective, nil
}

// UpdateObjective patches an objective.
func (s *ObjectiveService) UpdateObjective(ctx context.Context, actorID, objectiveID string, req UpdateObjectiveRequest) (*domain.Objective, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	objective, err := s.getOwnedObjective(ctx, actorID, objectiveID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		objective.Title = *req.Title
	}
	if req.Description != nil {
		objective.Description = *req.Description
	}
	if req.IsComplete != nil {
		objective.IsComplete = *req.IsComplete
	}
	objective.Touch()

	if err := s.store.UpdateObjective(ctx, objective); err != nil {
		return nil, fmt.Errorf("update objective: %w", err)
	}

	return objective, nil
}

// DeleteObjective removes an objective and its tasks.
func (s *ObjectiveService) DeleteObjective(ctx context.Context, actorID, objectiveID string) error {
	if _, err := s.getOwnedObjective(ctx, actorID, objectiveID); err != nil {
		return err
	}

	if err := s.store.DeleteObjective(ctx, objectiveID); err != nil {
		return fmt.Errorf("delete objective: %w", err)
	}
	return nil
}

// CreateTask adds a task under an objective the actor owns.
func (s *ObjectiveService) CreateTask(ctx context.Context, actorID, objectiveID string, req CreateTaskRequest) (*domain.Task, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.getOwnedObjective(ctx, actorID, objectiveID); err != nil {
		return nil, err
	}

	taskID, err := id.Generate("task")
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	task := &domain.Task{
		Syncable: domain.Syncable{
			ID: taskID,
		},
		ObjectiveID: objectiveID,
		Title:       req.Title,
	}
	task.InitTimestamps()

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// ListTasks returns an objective's tasks.
func (s *ObjectiveService) ListTasks(ctx context.Context, actorID, objectiveID string) ([]*domain.Task, error) {
	if _, err := s.getOwnedObjective(ctx, actorID, objectiveID); err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasksForObjective(ctx, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask patches a task, typically to toggle completion.
func (s *ObjectiveService) UpdateTask(ctx context.Context, actorID, taskID string, req UpdateTaskRequest) (*domain.Task, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	task, err := s.getOwnedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.IsComplete != nil {
		task.IsComplete = *req.IsComplete
	}
	task.Touch()

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task.
func (s *ObjectiveService) DeleteTask(ctx context.Context, actorID, taskID string) error {
	if _, err := s.getOwnedTask(ctx, actorID, taskID); err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *ObjectiveService) getOwnedTask(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("task not found")
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	if _, err := s.getOwnedObjective(ctx, actorID, task.ObjectiveID); err != nil {
		return nil, err
	}

	return task, nil
}
