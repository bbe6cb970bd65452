package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/favorites-api/internal/config"
	"github.com/javajoker/favorites-api/internal/database"
)

// fakeCatalog serves /products/{id} from an in-memory table of raw bodies.
type fakeCatalog struct {
	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	hits   atomic.Int64
	server *httptest.Server
}

func newFakeCatalog() *fakeCatalog {
	fc := &fakeCatalog{
		bodies: make(map[string]string),
		status: make(map[string]int),
	}
	fc.server = httptest.NewServer(http.HandlerFunc(fc.serve))
	return fc
}

func (fc *fakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	fc.hits.Add(1)
	id := strings.TrimPrefix(r.URL.Path, "/products/")

	fc.mu.Lock()
	body, status := fc.bodies[id], fc.status[id]
	fc.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func (fc *fakeCatalog) addProduct(id int, title string, price float64) {
	fc.setResponse(id, http.StatusOK, fmt.Sprintf(
		`{"id":%d,"title":%q,"price":%g,"description":"desc %d","category":"cat","image":"https://img/%d.png"}`,
		id, title, price, id, id,
	))
}

func (fc *fakeCatalog) setResponse(id int, status int, body string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	key := fmt.Sprint(id)
	fc.bodies[key] = body
	fc.status[key] = status
}

func (fc *fakeCatalog) catalog(timeout time.Duration) *ProductCatalog {
	return NewProductCatalog(config.CatalogConfig{BaseURL: fc.server.URL, Timeout: timeout})
}

func (fc *fakeCatalog) Close() {
	fc.server.Close()
}

func openTestDB(t require.TestingT) *gorm.DB {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	return db
}
