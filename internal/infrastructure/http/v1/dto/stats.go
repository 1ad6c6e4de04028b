package dto

import (
	"time"

	"transita/internal/domain/reports"
)

// TransferStatsQuery binds the statistics period and optional store filter.
type TransferStatsQuery struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02" binding:"required"`
	StoreIDs  []string  `form:"storeId"`
}

// ToFilter converts to the domain filter.
func (q *TransferStatsQuery) ToFilter() (reports.TransferStatsFilter, error) {
	f := reports.TransferStatsFilter{
		FromDate: q.StartDate,
		ToDate:   q.EndDate,
	}
	for _, raw := range q.StoreIDs {
		storeID, err := ParseID(raw, "storeId")
		if err != nil {
			return f, err
		}
		f.StoreIDs = append(f.StoreIDs, storeID)
	}
	return f, nil
}
