package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/favorites-api/internal/database"
	"github.com/javajoker/favorites-api/internal/models"
)

type FavoriteServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	catalog   *fakeCatalog
	favorites *FavoriteService
	clients   *ClientService
	ctx       context.Context
}

func (s *FavoriteServiceTestSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.catalog = newFakeCatalog()
	s.favorites = NewFavoriteService(s.db, s.catalog.catalog(time.Second))
	s.clients = NewClientService(s.db, s.favorites)
	s.ctx = context.Background()
}

func (s *FavoriteServiceTestSuite) TearDownTest() {
	s.catalog.Close()
	database.Close(s.db)
}

func (s *FavoriteServiceTestSuite) createClient(email string) *models.Client {
	client, err := s.clients.CreateClient(s.ctx, &CreateClientRequest{Name: "My favorite Client", Email: email})
	s.Require().NoError(err)
	return client
}

func (s *FavoriteServiceTestSuite) favoriteCount(clientID uuid.UUID) int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Favorite{}).Where("client_id = ?", clientID).Count(&count).Error)
	return count
}

func (s *FavoriteServiceTestSuite) TestAddFavorite() {
	client := s.createClient("fav@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)

	favorite, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 1})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, favorite.ID)
	s.Equal(client.ID, favorite.ClientID)
	s.Equal(1, favorite.ProductID)
	s.EqualValues(1, s.favoriteCount(client.ID))
}

func (s *FavoriteServiceTestSuite) TestAddFavoriteTwiceIsDuplicate() {
	client := s.createClient("dup@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)

	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 1})
	s.Require().NoError(err)

	_, err = s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 1})
	s.ErrorIs(err, ErrDuplicateFavorite)
	s.EqualValues(1, s.favoriteCount(client.ID))
}

func (s *FavoriteServiceTestSuite) TestSameProductForDifferentClients() {
	a := s.createClient("a@email.com")
	b := s.createClient("b@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)

	_, err := s.favorites.AddFavorite(s.ctx, a.ID, &CreateFavoriteRequest{ProductID: 1})
	s.Require().NoError(err)
	_, err = s.favorites.AddFavorite(s.ctx, b.ID, &CreateFavoriteRequest{ProductID: 1})
	s.Require().NoError(err)
}

func (s *FavoriteServiceTestSuite) TestConcurrentDuplicateAddsOneWins() {
	client := s.createClient("race@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 1})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case s.ErrorIs(err, ErrDuplicateFavorite):
			dup++
		}
	}
	s.Equal(1, ok)
	s.Equal(1, dup)
	s.EqualValues(1, s.favoriteCount(client.ID))
}

func (s *FavoriteServiceTestSuite) TestAddFavoriteProductAbsent() {
	client := s.createClient("absent@email.com")
	s.catalog.setResponse(99, http.StatusOK, "")

	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 99})
	s.ErrorIs(err, ErrProductNotFound)
	s.Zero(s.favoriteCount(client.ID))
}

func (s *FavoriteServiceTestSuite) TestAddFavoriteGatewayError() {
	client := s.createClient("gw@email.com")
	s.catalog.setResponse(5, http.StatusServiceUnavailable, "down")

	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 5})
	s.ErrorIs(err, ErrGateway)
	s.Zero(s.favoriteCount(client.ID))
}

func (s *FavoriteServiceTestSuite) TestAddFavoriteRequiresIdentity() {
	s.catalog.addProduct(1, "Backpack", 109.95)

	_, err := s.favorites.AddFavorite(s.ctx, uuid.Nil, &CreateFavoriteRequest{ProductID: 1})
	s.ErrorIs(err, ErrUnauthenticated)
	s.Zero(s.catalog.hits.Load())
}

func (s *FavoriteServiceTestSuite) TestAddFavoriteUnknownClient() {
	s.catalog.addProduct(1, "Backpack", 109.95)

	_, err := s.favorites.AddFavorite(s.ctx, uuid.New(), &CreateFavoriteRequest{ProductID: 1})
	s.ErrorIs(err, ErrClientNotFound)
}

func (s *FavoriteServiceTestSuite) TestAddFavoriteClientDeletedBeforeInsert() {
	client := s.createClient("vanish@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)

	// the store rejects the insert as it would once the client row is gone
	s.Require().NoError(s.db.Callback().Create().Before("gorm:create").Register("test:client_vanished", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*models.Favorite); ok {
			_ = tx.AddError(&pq.Error{Code: "23503", Constraint: "fk_clients_favorites"})
		}
	}))

	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 1})
	s.ErrorIs(err, ErrClientNotFound)
	s.NotErrorIs(err, ErrIntegrity)
	s.Zero(s.favoriteCount(client.ID))
}

func (s *FavoriteServiceTestSuite) TestAddFavoriteValidatesProductID() {
	client := s.createClient("zero@email.com")

	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 0})
	s.ErrorIs(err, ErrValidation)
}

func (s *FavoriteServiceTestSuite) TestRemoveFavorite() {
	client := s.createClient("rm@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)
	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 1})
	s.Require().NoError(err)

	s.NoError(s.favorites.RemoveFavorite(s.ctx, client.ID, 1))
	s.Zero(s.favoriteCount(client.ID))

	s.ErrorIs(s.favorites.RemoveFavorite(s.ctx, client.ID, 1), ErrFavoriteNotFound)
}

func (s *FavoriteServiceTestSuite) TestRemoveFavoriteOnlyTouchesActingClient() {
	a := s.createClient("a@email.com")
	b := s.createClient("b@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)
	_, err := s.favorites.AddFavorite(s.ctx, a.ID, &CreateFavoriteRequest{ProductID: 1})
	s.Require().NoError(err)

	s.ErrorIs(s.favorites.RemoveFavorite(s.ctx, b.ID, 1), ErrFavoriteNotFound)
	s.EqualValues(1, s.favoriteCount(a.ID))
}

func (s *FavoriteServiceTestSuite) TestListFavoritesEnrichesLive() {
	client := s.createClient("list@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)
	s.catalog.addProduct(2, "T-Shirt", 22.3)
	for _, id := range []int{1, 2} {
		_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: id})
		s.Require().NoError(err)
	}

	favorites, err := s.favorites.CollectFavorites(s.ctx, client.ID)
	s.Require().NoError(err)
	s.Require().Len(favorites, 2)
	s.Equal(1, favorites[0].ProductID)
	s.Equal("Backpack", favorites[0].Title)
	s.Equal(2, favorites[1].ProductID)

	// catalog data changes are visible on the next read
	s.catalog.addProduct(1, "Backpack v2", 99.0)
	favorites, err = s.favorites.CollectFavorites(s.ctx, client.ID)
	s.Require().NoError(err)
	s.Equal("Backpack v2", favorites[0].Title)
	s.Equal(99.0, favorites[0].Price)
}

func (s *FavoriteServiceTestSuite) TestListFavoritesKeepsStoredProductID() {
	client := s.createClient("ids@email.com")
	s.catalog.addProduct(3, "Jacket", 55.99)
	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 3})
	s.Require().NoError(err)

	s.catalog.setResponse(3, http.StatusOK, `{"id":300,"title":"Jacket","price":55.99}`)

	favorites, err := s.favorites.CollectFavorites(s.ctx, client.ID)
	s.Require().NoError(err)
	s.Require().Len(favorites, 1)
	s.Equal(3, favorites[0].ProductID)
}

func (s *FavoriteServiceTestSuite) TestListFavoritesProductGoneFromCatalog() {
	client := s.createClient("gone@email.com")
	s.catalog.addProduct(4, "Gone", 1)
	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 4})
	s.Require().NoError(err)

	s.catalog.setResponse(4, http.StatusOK, "")

	favorites, err := s.favorites.CollectFavorites(s.ctx, client.ID)
	s.Require().NoError(err)
	s.Require().Len(favorites, 1)
	s.Equal(models.EnrichedFavorite{ProductID: 4}, favorites[0])
}

func (s *FavoriteServiceTestSuite) TestListFavoritesFailsOnGatewayError() {
	client := s.createClient("fail@email.com")
	s.catalog.addProduct(1, "Backpack", 109.95)
	_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: 1})
	s.Require().NoError(err)

	s.catalog.setResponse(1, http.StatusBadGateway, "upstream down")

	_, err = s.favorites.CollectFavorites(s.ctx, client.ID)
	s.ErrorIs(err, ErrGateway)
}

func (s *FavoriteServiceTestSuite) TestListFavoritesIsLazy() {
	client := s.createClient("lazy@email.com")
	for _, id := range []int{1, 2, 3} {
		s.catalog.addProduct(id, "p", 1)
		_, err := s.favorites.AddFavorite(s.ctx, client.ID, &CreateFavoriteRequest{ProductID: id})
		s.Require().NoError(err)
	}
	before := s.catalog.hits.Load()

	seq := s.favorites.ListFavoritesForClient(s.ctx, client.ID)
	s.Equal(before, s.catalog.hits.Load())

	for favorite, err := range seq {
		s.Require().NoError(err)
		s.Equal(1, favorite.ProductID)
		break
	}
	s.Equal(before+1, s.catalog.hits.Load())
}

func TestFavoriteServiceSuite(t *testing.T) {
	suite.Run(t, new(FavoriteServiceTestSuite))
}
