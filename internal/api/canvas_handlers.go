package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

func (s *Server) registerCanvasRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createCanvas",
		Method:      http.MethodPost,
		Path:        "/api/v1/library/{id}/canvases",
		Summary:     "Create canvas",
		Description: "Adds a planning canvas to one of the authenticated user's library entries",
		Tags:        []string{"Canvases"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCanvas)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCanvases",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{id}/canvases",
		Summary:     "List canvases",
		Description: "Returns the canvases attached to a library entry",
		Tags:        []string{"Canvases"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCanvases)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCanvas",
		Method:      http.MethodPatch,
		Path:        "/api/v1/canvases/{id}",
		Summary:     "Update canvas",
		Description: "Patches a canvas's name or content document",
		Tags:        []string{"Canvases"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCanvas)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCanvas",
		Method:      http.MethodDelete,
		Path:        "/api/v1/canvases/{id}",
		Summary:     "Delete canvas",
		Description: "Deletes a canvas",
		Tags:        []string{"Canvases"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCanvas)
}

// === DTOs ===

// CanvasResponse contains canvas data in API responses.
type CanvasResponse struct {
	ID             string    `json:"id" doc:"Canvas ID"`
	LibraryEntryID string    `json:"library_entry_id" doc:"Owning entry ID"`
	Name           string    `json:"name" doc:"Canvas name"`
	Content        string    `json:"content,omitempty" doc:"Opaque content document"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// CanvasOutput wraps a canvas response for Huma.
type CanvasOutput struct {
	Body CanvasResponse
}

// CanvasListOutput wraps a canvas list for Huma.
type CanvasListOutput struct {
	Body []CanvasResponse
}

// CreateCanvasRequest is the request body for creating a canvas.
type CreateCanvasRequest struct {
	Name    string `json:"name" validate:"required,max=500" doc:"Canvas name"`
	Content string `json:"content,omitempty" validate:"omitempty,max=1000000" doc:"Opaque content document"`
}

// CreateCanvasInput wraps the create request for Huma.
type CreateCanvasInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Library entry ID"`
	Body          CreateCanvasRequest
}

// UpdateCanvasRequest is the request body for patching a canvas.
type UpdateCanvasRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=500" doc:"Canvas name"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=1000000" doc:"Opaque content document"`
}

// UpdateCanvasInput wraps the update request for Huma.
type UpdateCanvasInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Canvas ID"`
	Body          UpdateCanvasRequest
}

// CanvasIDInput identifies a canvas by path.
type CanvasIDInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Canvas ID"`
}

// === Handlers ===

func (s *Server) handleCreateCanvas(ctx context.Context, input *CreateCanvasInput) (*CanvasOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	canvas, err := s.services.Canvas.CreateCanvas(ctx, userID, input.ID, service.CreateCanvasRequest{
		Name:    input.Body.Name,
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &CanvasOutput{Body: mapCanvasResponse(canvas)}, nil
}

func (s *Server) handleListCanvases(ctx context.Context, input *EntryInput) (*CanvasListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	canvases, err := s.services.Canvas.ListCanvases(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]CanvasResponse, 0, len(canvases))
	for _, canvas := range canvases {
		out = append(out, mapCanvasResponse(canvas))
	}

	return &CanvasListOutput{Body: out}, nil
}

func (s *Server) handleUpdateCanvas(ctx context.Context, input *UpdateCanvasInput) (*CanvasOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	canvas, err := s.services.Canvas.UpdateCanvas(ctx, userID, input.ID, service.UpdateCanvasRequest{
		Name:    input.Body.Name,
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &CanvasOutput{Body: mapCanvasResponse(canvas)}, nil
}

func (s *Server) handleDeleteCanvas(ctx context.Context, input *CanvasIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Canvas.DeleteCanvas(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Canvas deleted"}}, nil
}

func mapCanvasResponse(c *domain.Canvas) CanvasResponse {
	return CanvasResponse{
		ID:             c.ID,
		LibraryEntryID: c.LibraryEntryID,
		Name:           c.Name,
		Content:        c.Content,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
