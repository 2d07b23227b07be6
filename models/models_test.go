package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchReport_AppendKeepsCountersInStep(t *testing.T) {
	t.Parallel()

	var r BatchReport
	r.Append(SyncOutcome{CountryCode: "AR", Status: StatusUpdated})
	r.Append(SyncOutcome{CountryCode: "MX", Status: StatusExtractionFailed, Detail: "timeout"})
	r.Append(SyncOutcome{CountryCode: "CO", Status: StatusUpdateFailed, Detail: "http 500"})

	require.Equal(t, 3, r.Total)
	require.Equal(t, 1, r.Updated)
	require.Equal(t, 2, r.Failed)
	require.Equal(t, r.Total, r.Updated+r.Failed)
	require.Equal(t, []string{"AR", "MX", "CO"}, []string{
		r.Outcomes[0].CountryCode, r.Outcomes[1].CountryCode, r.Outcomes[2].CountryCode,
	})
}
