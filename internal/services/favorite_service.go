// internal/services/favorite_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/javajoker/favorites-api/internal/database"
	"github.com/javajoker/favorites-api/internal/models"
	"github.com/javajoker/favorites-api/internal/utils"
)

// ProductLookup is the catalog boundary used to validate and enrich favorites.
type ProductLookup interface {
	FetchProduct(ctx context.Context, productID int) (*models.Product, error)
}

type FavoriteService struct {
	db       *gorm.DB
	products ProductLookup
}

type CreateFavoriteRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

func NewFavoriteService(db *gorm.DB, products ProductLookup) *FavoriteService {
	return &FavoriteService{
		db:       db,
		products: products,
	}
}

// AddFavorite validates productID against the catalog and records it for the
// acting client. Duplicates are rejected by the unique index, not a pre-check.
func (s *FavoriteService) AddFavorite(ctx context.Context, clientID uuid.UUID, req *CreateFavoriteRequest) (*models.Favorite, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, Err(ErrValidation, err, "")
	}
	if clientID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	ctx, span := tracer.Start(ctx, "favorites.AddFavorite",
		trace.WithAttributes(
			attribute.String("client.id", clientID.String()),
			attribute.Int("product.id", req.ProductID),
		),
	)
	defer span.End()

	favorite, err := s.addFavorite(ctx, clientID, req.ProductID)
	if err != nil {
		recordSpanError(span, err)
		favoriteOperations.WithLabelValues("add", resultLabel(err)).Inc()
		return nil, err
	}

	favoriteOperations.WithLabelValues("add", "ok").Inc()
	span.SetAttributes(attribute.String("favorite.id", favorite.ID.String()))
	return favorite, nil
}

func (s *FavoriteService) addFavorite(ctx context.Context, clientID uuid.UUID, productID int) (*models.Favorite, error) {
	product, err := s.products.FetchProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, Err(ErrProductNotFound, nil, "product %d does not exist", productID)
	}

	db := s.db.WithContext(ctx)

	var client models.Client
	if err := db.Select("id").First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	favorite := &models.Favorite{
		ClientID:  client.ID,
		ProductID: productID,
	}
	if err := db.Create(favorite).Error; err != nil {
		if name, ok := database.UniqueViolation(err); ok {
			if name == models.FavoriteClientProductIdx {
				return nil, Err(ErrDuplicateFavorite, err, "")
			}
			return nil, Err(ErrIntegrity, err, "constraint %s", name)
		}
		// client deleted after the lookup above
		if database.ForeignKeyViolation(err) {
			return nil, Err(ErrClientNotFound, err, "")
		}
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"client_id":  clientID,
		"product_id": productID,
	}).Debug("Favorite added")

	return favorite, nil
}

// RemoveFavorite deletes the acting client's favorite for productID.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, clientID uuid.UUID, productID int) error {
	if clientID == uuid.Nil {
		return ErrUnauthenticated
	}

	ctx, span := tracer.Start(ctx, "favorites.RemoveFavorite",
		trace.WithAttributes(
			attribute.String("client.id", clientID.String()),
			attribute.Int("product.id", productID),
		),
	)
	defer span.End()

	db := s.db.WithContext(ctx)

	var favorite models.Favorite
	if err := db.Where("client_id = ? AND product_id = ?", clientID, productID).First(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			favoriteOperations.WithLabelValues("remove", "not_found").Inc()
			return ErrFavoriteNotFound
		}
		recordSpanError(span, err)
		return fmt.Errorf("database error: %w", err)
	}

	if err := db.Delete(&favorite).Error; err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	favoriteOperations.WithLabelValues("remove", "ok").Inc()
	return nil
}

// ListFavoritesForClient yields the client's favorites enriched with current
// catalog data. Stored rows are read when iteration starts and each element
// costs one catalog call; iteration stops at the first error.
func (s *FavoriteService) ListFavoritesForClient(ctx context.Context, clientID uuid.UUID) iter.Seq2[models.EnrichedFavorite, error] {
	return func(yield func(models.EnrichedFavorite, error) bool) {
		var favorites []models.Favorite
		if err := s.db.WithContext(ctx).
			Where("client_id = ?", clientID).
			Order("created_at, id").
			Find(&favorites).Error; err != nil {
			yield(models.EnrichedFavorite{}, fmt.Errorf("database error: %w", err))
			return
		}

		for _, favorite := range favorites {
			product, err := s.products.FetchProduct(ctx, favorite.ProductID)
			if err != nil {
				yield(models.EnrichedFavorite{}, err)
				return
			}
			if product == nil {
				logrus.WithFields(logrus.Fields{
					"client_id":  clientID,
					"product_id": favorite.ProductID,
				}).Warn("Favorite product no longer in catalog")
			}
			if !yield(models.NewEnrichedFavorite(favorite, product), nil) {
				return
			}
		}
	}
}

// CollectFavorites drains ListFavoritesForClient.
func (s *FavoriteService) CollectFavorites(ctx context.Context, clientID uuid.UUID) ([]models.EnrichedFavorite, error) {
	ctx, span := tracer.Start(ctx, "favorites.CollectFavorites",
		trace.WithAttributes(attribute.String("client.id", clientID.String())),
	)
	defer span.End()

	favorites := []models.EnrichedFavorite{}
	for favorite, err := range s.ListFavoritesForClient(ctx, clientID) {
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		favorites = append(favorites, favorite)
	}
	return favorites, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrDuplicateFavorite):
		return "duplicate"
	case errors.Is(err, ErrClientNotFound):
		return "client_not_found"
	case errors.Is(err, ErrGateway):
		return "gateway_error"
	default:
		return "error"
	}
}
