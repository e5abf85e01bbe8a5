package domain

// Objective is a user-defined goal attached to a library entry
// ("beat the final boss", "find all shrines"). Objectives own tasks.
type Objective struct {
	Syncable
	LibraryEntryID string `json:"library_entry_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	IsComplete     bool   `json:"is_complete"`
}

// Task is a single step under an objective. Tasks reference their objective
// only, so they follow it wherever the objective's entry goes.
type Task struct {
	Syncable
	ObjectiveID string `json:"objective_id"`
	Title       string `json:"title"`
	IsComplete  bool   `json:"is_complete"`
}

// Note is a freeform text note attached to a library entry.
type Note struct {
	Syncable
	LibraryEntryID string `json:"library_entry_id"`
	Title          string `json:"title"`
	Body           string `json:"body,omitempty"`
}

// Canvas is a freeform drawing/planning board attached to a library entry.
// Content is an opaque JSON document owned by the client.
type Canvas struct {
	Syncable
	LibraryEntryID string `json:"library_entry_id"`
	Name           string `json:"name"`
	Content        string `json:"content,omitempty"`
}
