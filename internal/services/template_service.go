package services

import (
	"context"
	"errors"
	"strings"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
)

var ErrTemplateNotFound = errors.New("template not found")

// RenderTemplate substitutes every {name} placeholder from the variable
// map. Placeholders without a value stay verbatim, so partially-filled
// previews remain readable; rendering never fails.
func RenderTemplate(content string, variables map[string]string) string {
	if len(variables) == 0 {
		return content
	}
	pairs := make([]string, 0, len(variables)*2)
	for name, value := range variables {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

type TemplateService interface {
	GetBySlug(ctx context.Context, slug string) (*models.MessageTemplate, error)
	List(ctx context.Context) ([]models.MessageTemplate, error)
	Update(ctx context.Context, slug string, req *models.TemplateUpdateRequest) (*models.MessageTemplate, error)
	// ResetToDefault restores the factory body for a known slug.
	ResetToDefault(ctx context.Context, slug string) (*models.MessageTemplate, error)
	Preview(content string, variables map[string]string) string
}

type templateService struct {
	repo repository.MessageTemplateRepository
}

func NewTemplateService(repo repository.MessageTemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

func (s *templateService) GetBySlug(ctx context.Context, slug string) (*models.MessageTemplate, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *templateService) List(ctx context.Context) ([]models.MessageTemplate, error) {
	return s.repo.List(ctx)
}

func (s *templateService) Update(ctx context.Context, slug string, req *models.TemplateUpdateRequest) (*models.MessageTemplate, error) {
	tpl, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		tpl.Name = req.Name
	}
	if req.Description != "" {
		tpl.Description = req.Description
	}
	tpl.Content = req.Content
	if req.Variables != nil {
		tpl.Variables = req.Variables
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) ResetToDefault(ctx context.Context, slug string) (*models.MessageTemplate, error) {
	def, ok := models.DefaultTemplate(slug)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	tpl, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	tpl.Name = def.Name
	tpl.Content = def.Content
	tpl.Variables = def.Variables
	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) Preview(content string, variables map[string]string) string {
	return RenderTemplate(content, variables)
}
