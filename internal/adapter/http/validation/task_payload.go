package validation

import (
	"errors"
	"strings"
	"time"

	"tripmatch/internal/adapter/http/dto"
	"tripmatch/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

// BuildCreateTaskInput converts the wire payload into a domain input. Field
// shape problems (unparseable dates, unknown budget type) are payload errors;
// semantic rules (past deadline, inverted budget range) stay with the flow
// service so it can report them all at once.
func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	input := domain.CreateTaskInput{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Requirements: req.Requirements,
		Budget: domain.BudgetRange{
			Min:  req.BudgetMin,
			Max:  req.BudgetMax,
			Type: domain.BudgetTypeNegotiable,
		},
		Tags:         req.Tags,
		ContentTypes: req.ContentTypes,
	}

	if req.BudgetType != nil {
		input.Budget.Type = domain.BudgetType(*req.BudgetType)
	}

	if req.Deadline != nil {
		deadline, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Deadline = &deadline
	}

	if req.Location != nil {
		input.Location = &domain.Geolocation{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}

	return input, nil
}

// BuildTransitionStage validates the requested stage name.
func BuildTransitionStage(req dto.TransitionRequest) (domain.TaskStage, error) {
	stage := domain.TaskStage(strings.TrimSpace(req.Stage))
	if !domain.ValidStage(stage) {
		return "", ErrInvalidTaskPayload
	}
	return stage, nil
}

func BuildSubmitApplicationInput(req dto.SubmitApplicationRequest) domain.SubmitApplicationInput {
	return domain.SubmitApplicationInput{
		Proposal:       strings.TrimSpace(req.Proposal),
		ProposedBudget: req.ProposedBudget,
	}
}

func BuildSubmitWorkInput(req dto.SubmitWorkRequest) domain.SubmitWorkInput {
	return domain.SubmitWorkInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		FileURL:     req.FileURL,
	}
}
