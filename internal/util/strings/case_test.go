package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"articles", "articles"},
		{"BlogPosts", "blog_posts"},
		{"HTTPRequest", "http_request"},
		{"userID", "user_id"},
		{"Blog Posts", "blog_posts"},
		{"order-items", "order_items"},
		{"  Tags  ", "tags"},
		{"posts2Tags", "posts2_tags"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSnakeCase(tt.input), tt.input)
	}
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Blog Posts", Humanize("blog_posts"))
	assert.Equal(t, "Articles", Humanize("articles"))
	assert.Equal(t, "Order Items", Humanize("order__items"))
	assert.Equal(t, "", Humanize(""))
}
