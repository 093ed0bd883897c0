package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsComplete(t *testing.T) {
	name := "Jane Doe"
	username := "jane"
	empty := ""

	tests := []struct {
		name string
		user User
		want bool
	}{
		{
			name: "all fields populated",
			user: User{ID: "1", Name: &name, Username: &username},
			want: true,
		},
		{
			name: "missing username",
			user: User{ID: "1", Name: &name},
			want: false,
		},
		{
			name: "empty name",
			user: User{ID: "1", Name: &empty, Username: &username},
			want: false,
		},
		{
			name: "missing id",
			user: User{Name: &name, Username: &username},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsComplete())
		})
	}
}

func TestReview_OnShelf(t *testing.T) {
	review := Review{Shelves: []Shelf{{ID: "1", Name: "to-read"}, {ID: "2", Name: ReadShelf}}}

	assert.True(t, review.OnShelf(ReadShelf))
	assert.False(t, review.OnShelf("currently-reading"))
	assert.False(t, Review{}.OnShelf(ReadShelf))
}
