package google

import (
	"errors"

	"google.golang.org/api/googleapi"

	"homefinance/internal/core"
	ports "homefinance/internal/sheets"
)

// parseValues converts a values matrix (as returned by Sheets API) into a
// table. The first row holds the headers; a sheet without rows yields an
// empty table.
func parseValues(values [][]any, headers ports.HeaderMap) core.Table {
	if len(values) == 0 {
		return core.Table{}
	}
	return ports.Records(ports.ToStrings(values[0]), values[1:], headers)
}

func apiErrorCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	return 0, false
}
