package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
	"promethia/training-api/internal/workout"
)

var (
	ErrTemplateNotFound     = errors.New("saved training not found")
	ErrTemplateAccessDenied = errors.New("only the creator can modify this saved training")
)

// SavedTrainingInput carries the template form fields.
type SavedTrainingInput struct {
	Name           string
	Sport          string
	Description    string
	IsPublic       bool
	TrainingBlocks []workout.Block
}

// SavedTrainingService manages reusable workout templates.
type SavedTrainingService interface {
	Create(ctx context.Context, creatorID primitive.ObjectID, input SavedTrainingInput) (*domain.SavedTraining, error)
	// List returns the actor's own templates plus the public library.
	List(ctx context.Context, actorID primitive.ObjectID) ([]domain.SavedTraining, error)
	Get(ctx context.Context, actorID, id primitive.ObjectID) (*domain.SavedTraining, error)
	Update(ctx context.Context, actorID, id primitive.ObjectID, input SavedTrainingInput) (*domain.SavedTraining, error)
	Delete(ctx context.Context, actorID, id primitive.ObjectID) error
}

type savedTrainingService struct {
	savedRepo repository.SavedTrainingRepository
}

// NewSavedTrainingService creates a new instance of savedTrainingService.
func NewSavedTrainingService(savedRepo repository.SavedTrainingRepository) SavedTrainingService {
	return &savedTrainingService{savedRepo: savedRepo}
}

func (s *savedTrainingService) Create(ctx context.Context, creatorID primitive.ObjectID, input SavedTrainingInput) (*domain.SavedTraining, error) {
	if input.Name == "" {
		return nil, errors.New("name is required")
	}

	saved := &domain.SavedTraining{
		CreatorID:   creatorID,
		Name:        input.Name,
		Sport:       input.Sport,
		Description: input.Description,
		IsPublic:    input.IsPublic,
	}

	if len(input.TrainingBlocks) > 0 {
		structure := workout.NormalizeBlocks(input.TrainingBlocks)
		if err := workout.ValidateAll(structure); err != nil {
			return nil, err
		}
		saved.Data = structure
	}

	id, err := s.savedRepo.Create(ctx, saved)
	if err != nil {
		return nil, err
	}
	saved.ID = id
	return saved, nil
}

func (s *savedTrainingService) List(ctx context.Context, actorID primitive.ObjectID) ([]domain.SavedTraining, error) {
	return s.savedRepo.ListByCreator(ctx, actorID)
}

func (s *savedTrainingService) Get(ctx context.Context, actorID, id primitive.ObjectID) (*domain.SavedTraining, error) {
	saved, err := s.savedRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if saved.CreatorID != actorID && !saved.IsPublic {
		return nil, ErrTemplateNotFound
	}
	return saved, nil
}

func (s *savedTrainingService) Update(ctx context.Context, actorID, id primitive.ObjectID, input SavedTrainingInput) (*domain.SavedTraining, error) {
	saved, err := s.savedRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if saved.CreatorID != actorID {
		return nil, ErrTemplateAccessDenied
	}

	if input.Name != "" {
		saved.Name = input.Name
	}
	if input.Sport != "" {
		saved.Sport = input.Sport
	}
	if input.Description != "" {
		saved.Description = input.Description
	}
	saved.IsPublic = input.IsPublic

	if input.TrainingBlocks != nil {
		structure := workout.NormalizeBlocks(input.TrainingBlocks)
		if err := workout.ValidateAll(structure); err != nil {
			return nil, err
		}
		saved.Data = structure
	}

	if err := s.savedRepo.Update(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *savedTrainingService) Delete(ctx context.Context, actorID, id primitive.ObjectID) error {
	saved, err := s.savedRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	if saved.CreatorID != actorID {
		return ErrTemplateAccessDenied
	}
	return s.savedRepo.Delete(ctx, id)
}
