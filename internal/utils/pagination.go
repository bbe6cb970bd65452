// internal/utils/pagination.go
package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// OffsetLimit is passed straight through to the store.
type OffsetLimit struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// GetOffsetLimit reads ?offset=&limit= and rejects values outside
// [0, maxLimit] instead of clamping them.
func GetOffsetLimit(c *gin.Context, maxLimit int) (OffsetLimit, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return OffsetLimit{}, fmt.Errorf("offset must be a non-negative integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(maxLimit)))
	if err != nil || limit < 0 || limit > maxLimit {
		return OffsetLimit{}, fmt.Errorf("limit must be an integer between 0 and %d", maxLimit)
	}

	return OffsetLimit{Offset: offset, Limit: limit}, nil
}

func SetPaginationHeaders(c *gin.Context, params OffsetLimit, count int) {
	c.Header("X-Offset", strconv.Itoa(params.Offset))
	c.Header("X-Limit", strconv.Itoa(params.Limit))
	c.Header("X-Count", strconv.Itoa(count))
}
