package dto

type StepInput struct {
	StepName    string `json:"step_name" binding:"required,max=50"`
	DisplayName string `json:"display_name" binding:"max=100"`
	IsEnabled   *bool  `json:"is_enabled"`
}

type SaveWorkflowRequest struct {
	Steps []StepInput `json:"steps" binding:"required,min=1,dive"`
}

// UpdateStepRequest toggles one step of one song. At least one field must be
// set.
type UpdateStepRequest struct {
	Completed  *bool `json:"completed"`
	Irrelevant *bool `json:"irrelevant"`
}
