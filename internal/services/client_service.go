// internal/services/client_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/favorites-api/internal/database"
	"github.com/javajoker/favorites-api/internal/models"
	"github.com/javajoker/favorites-api/internal/utils"
)

const MaxClientsPerPage = 100

type ClientService struct {
	db        *gorm.DB
	favorites *FavoriteService
}

type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// UpdateClientRequest only applies the fields present in the request body.
type UpdateClientRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

func NewClientService(db *gorm.DB, favorites *FavoriteService) *ClientService {
	return &ClientService{
		db:        db,
		favorites: favorites,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, req *CreateClientRequest) (*models.Client, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, Err(ErrValidation, err, "")
	}

	client := &models.Client{
		Name:  req.Name,
		Email: req.Email,
	}

	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, classifyClientWriteError(err)
	}

	logrus.WithField("client_id", client.ID).Debug("Client created")
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &client, nil
}

// ReadClient returns the client with its favorites enriched from the catalog.
func (s *ClientService) ReadClient(ctx context.Context, id uuid.UUID) (*models.ClientWithFavorites, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	favorites, err := s.favorites.CollectFavorites(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	out := models.NewClientWithFavorites(client, favorites)
	return &out, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, req *UpdateClientRequest) (*models.Client, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, Err(ErrValidation, err, "")
	}

	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if len(updates) == 0 {
		return client, nil
	}

	if err := s.db.WithContext(ctx).Model(client).Updates(updates).Error; err != nil {
		return nil, classifyClientWriteError(err)
	}

	return client, nil
}

// DeleteClient removes the client and all of its favorites atomically.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Select("id").First(&client, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("client_id = ?", client.ID).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}

		if err := tx.Delete(&client).Error; err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		logrus.WithField("client_id", id).Debug("Client deleted")
		return nil
	})
}

// ListClients returns a page of clients, each with enriched favorites.
func (s *ClientService) ListClients(ctx context.Context, offset, limit int) ([]models.ClientWithFavorites, error) {
	if offset < 0 || limit < 0 || limit > MaxClientsPerPage {
		return nil, Err(ErrValidation, nil, "offset must be >= 0 and limit between 0 and %d", MaxClientsPerPage)
	}

	var clients []models.Client
	if err := s.db.WithContext(ctx).
		Order("created_at, id").
		Offset(offset).
		Limit(limit).
		Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	out := make([]models.ClientWithFavorites, 0, len(clients))
	for i := range clients {
		favorites, err := s.favorites.CollectFavorites(ctx, clients[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewClientWithFavorites(&clients[i], favorites))
	}
	return out, nil
}

func classifyClientWriteError(err error) error {
	name, ok := database.UniqueViolation(err)
	if !ok {
		return fmt.Errorf("database error: %w", err)
	}
	if name == models.ClientEmailIndex {
		return Err(ErrDuplicateEmail, err, "")
	}
	return Err(ErrIntegrity, err, "constraint %s", name)
}
