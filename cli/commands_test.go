package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldnet/fieldnet/engine/query"
)

func TestPageFooter(t *testing.T) {
	t.Run("Should point at the next page when more records remain", func(t *testing.T) {
		lines := pageFooter(query.Pagination{Page: 0, PerPage: 20}, 1041)
		assert.Equal(t, []string{
			"Showing 1-20 of 1,041 (page 1 of 53)",
			"Next page: --page 1",
		}, lines)
	})

	t.Run("Should omit the hint on the last page", func(t *testing.T) {
		lines := pageFooter(query.Pagination{Page: 2, PerPage: 20}, 41)
		assert.Equal(t, []string{"Showing 41-41 of 41 (page 3 of 3)"}, lines)
	})

	t.Run("Should report an empty page", func(t *testing.T) {
		lines := pageFooter(query.Pagination{Page: 4, PerPage: 20}, 41)
		assert.Equal(t, []string{"No records on page 5 of 41"}, lines)
	})
}
