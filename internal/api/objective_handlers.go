package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

func (s *Server) registerObjectiveRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createObjective",
		Method:      http.MethodPost,
		Path:        "/api/v1/library/{id}/objectives",
		Summary:     "Create objective",
		Description: "Adds an objective to one of the authenticated user's library entries",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateObjective)

	huma.Register(s.api, huma.Operation{
		OperationID: "listObjectives",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{id}/objectives",
		Summary:     "List objectives",
		Description: "Returns the objectives attached to a library entry",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListObjectives)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateObjective",
		Method:      http.MethodPatch,
		Path:        "/api/v1/objectives/{id}",
		Summary:     "Update objective",
		Description: "Patches an objective's title, description, or completion flag",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateObjective)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteObjective",
		Method:      http.MethodDelete,
		Path:        "/api/v1/objectives/{id}",
		Summary:     "Delete objective",
		Description: "Deletes an objective and all of its tasks",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteObjective)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTask",
		Method:      http.MethodPost,
		Path:        "/api/v1/objectives/{id}/tasks",
		Summary:     "Create task",
		Description: "Adds a task under an objective",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTasks",
		Method:      http.MethodGet,
		Path:        "/api/v1/objectives/{id}/tasks",
		Summary:     "List tasks",
		Description: "Returns the tasks under an objective",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTasks)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTask",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Update task",
		Description: "Patches a task's title or completion flag",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTask",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Delete task",
		Description: "Deletes a task",
		Tags:        []string{"Objectives"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTask)
}

// === DTOs ===

// ObjectiveResponse contains objective data in API responses.
type ObjectiveResponse struct {
	ID             string    `json:"id" doc:"Objective ID"`
	LibraryEntryID string    `json:"library_entry_id" doc:"Owning entry ID"`
	Title          string    `json:"title" doc:"Objective title"`
	Description    string    `json:"description,omitempty" doc:"Longer description"`
	IsComplete     bool      `json:"is_complete" doc:"Completion flag"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ObjectiveOutput wraps an objective response for Huma.
type ObjectiveOutput struct {
	Body ObjectiveResponse
}

// ObjectiveListOutput wraps an objective list for Huma.
type ObjectiveListOutput struct {
	Body []ObjectiveResponse
}

// CreateObjectiveRequest is the request body for creating an objective.
type CreateObjectiveRequest struct {
	Title       string `json:"title" validate:"required,max=500" doc:"Objective title"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000" doc:"Longer description"`
}

// CreateObjectiveInput wraps the create request for Huma.
type CreateObjectiveInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Library entry ID"`
	Body          CreateObjectiveRequest
}

// UpdateObjectiveRequest is the request body for patching an objective.
type UpdateObjectiveRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Objective title"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000" doc:"Longer description"`
	IsComplete  *bool   `json:"is_complete,omitempty" doc:"Completion flag"`
}

// UpdateObjectiveInput wraps the update request for Huma.
type UpdateObjectiveInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Objective ID"`
	Body          UpdateObjectiveRequest
}

// ObjectiveIDInput identifies an objective by path.
type ObjectiveIDInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Objective ID"`
}

// TaskResponse contains task data in API responses.
type TaskResponse struct {
	ID          string    `json:"id" doc:"Task ID"`
	ObjectiveID string    `json:"objective_id" doc:"Owning objective ID"`
	Title       string    `json:"title" doc:"Task title"`
	IsComplete  bool      `json:"is_complete" doc:"Completion flag"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// TaskOutput wraps a task response for Huma.
type TaskOutput struct {
	Body TaskResponse
}

// TaskListOutput wraps a task list for Huma.
type TaskListOutput struct {
	Body []TaskResponse
}

// CreateTaskRequest is the request body for creating a task.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,max=500" doc:"Task title"`
}

// CreateTaskInput wraps the create request for Huma.
type CreateTaskInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Objective ID"`
	Body          CreateTaskRequest
}

// UpdateTaskRequest is the request body for patching a task.
type UpdateTaskRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Task title"`
	IsComplete *bool   `json:"is_complete,omitempty" doc:"Completion flag"`
}

// UpdateTaskInput wraps the update request for Huma.
type UpdateTaskInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Task ID"`
	Body          UpdateTaskRequest
}

// TaskIDInput identifies a task by path.
type TaskIDInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Task ID"`
}

// === Handlers ===

func (s *Server) handleCreateObjective(ctx context.Context, input *CreateObjectiveInput) (*ObjectiveOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	objective, err := s.services.Objective.CreateObjective(ctx, userID, input.ID, service.CreateObjectiveRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &ObjectiveOutput{Body: mapObjectiveResponse(objective)}, nil
}

func (s *Server) handleListObjectives(ctx context.Context, input *EntryInput) (*ObjectiveListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	objectives, err := s.services.Objective.ListObjectives(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]ObjectiveResponse, 0, len(objectives))
	for _, objective := range objectives {
		out = append(out, mapObjectiveResponse(objective))
	}

	return &ObjectiveListOutput{Body: out}, nil
}

func (s *Server) handleUpdateObjective(ctx context.Context, input *UpdateObjectiveInput) (*ObjectiveOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	objective, err := s.services.Objective.UpdateObjective(ctx, userID, input.ID, service.UpdateObjectiveRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		IsComplete:  input.Body.IsComplete,
	})
	if err != nil {
		return nil, err
	}

	return &ObjectiveOutput{Body: mapObjectiveResponse(objective)}, nil
}

func (s *Server) handleDeleteObjective(ctx context.Context, input *ObjectiveIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Objective.DeleteObjective(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Objective deleted"}}, nil
}

func (s *Server) handleCreateTask(ctx context.Context, input *CreateTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Objective.CreateTask(ctx, userID, input.ID, service.CreateTaskRequest{
		Title: input.Body.Title,
	})
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: mapTaskResponse(task)}, nil
}

func (s *Server) handleListTasks(ctx context.Context, input *ObjectiveIDInput) (*TaskListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.services.Objective.ListTasks(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, mapTaskResponse(task))
	}

	return &TaskListOutput{Body: out}, nil
}

func (s *Server) handleUpdateTask(ctx context.Context, input *UpdateTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Objective.UpdateTask(ctx, userID, input.ID, service.UpdateTaskRequest{
		Title:      input.Body.Title,
		IsComplete: input.Body.IsComplete,
	})
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: mapTaskResponse(task)}, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, input *TaskIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Objective.DeleteTask(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Task deleted"}}, nil
}

func mapObjectiveResponse(o *domain.Objective) ObjectiveResponse {
	return ObjectiveResponse{
		ID:             o.ID,
		LibraryEntryID: o.LibraryEntryID,
		Title:          o.Title,
		Description:    o.Description,
		IsComplete:     o.IsComplete,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func mapTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ObjectiveID: t.ObjectiveID,
		Title:       t.Title,
		IsComplete:  t.IsComplete,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
