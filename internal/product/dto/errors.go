package dto

import (
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
)

var ErrPriceNotPositive = fmt.Errorf("price must be positive: %w", apperror.ErrInvalidInput)
