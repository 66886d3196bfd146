package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledUploader(t *testing.T) {
	var u Uploader = Disabled{}
	_, err := u.UploadImage(context.Background(), strings.NewReader("img"), "p1")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, u.DeleteImage(context.Background(), "p1"))
}

func TestNewCloudinaryUploader(t *testing.T) {
	u, err := NewCloudinaryUploader("demo", "key", "secret", "frameshop/products")
	require.NoError(t, err)
	assert.Equal(t, "frameshop/products", u.folder)
}
