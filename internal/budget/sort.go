package budget

import (
	"sort"

	"github.com/theirongolddev/zenith/internal/model"
)

func sortNewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date > txns[j].Date
	})
}
