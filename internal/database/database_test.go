package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseName(t *testing.T) {
	cases := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017", DefaultDatabase},
		{"mongodb://localhost:27017/", DefaultDatabase},
		{"mongodb://localhost:27017/recruiting", "recruiting"},
		{"mongodb+srv://u:p@cluster0.mongodb.net/ats?retryWrites=true", "ats"},
		{"::not a uri", DefaultDatabase},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DatabaseName(tc.uri), tc.uri)
	}
}
