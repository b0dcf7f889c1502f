// Package refdata loads flat-file reference data: the security-id table
// and the account book. Both are read once at startup into immutable
// snapshots; nothing in the request path re-parses the source files.
package refdata

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// Resolver maps a (strike, contract type) pair to the broker security id
// required to place an order for that contract.
type Resolver interface {
	Resolve(strike float64, contractType models.ContractType) (string, bool)
	Len() int
}

// SecurityRecord is one row of the security-id reference file.
type SecurityRecord struct {
	SecurityID   string  `csv:"security_id"`
	StrikePrice  float64 `csv:"strike_price"`
	ContractType string  `csv:"contract_type"`
}

// snapshotResolver is an immutable in-memory index built once from the
// reference file, keyed "<strike>_<CE|PE>".
type snapshotResolver struct {
	ids map[string]string
}

// LoadResolver reads the security-id reference file and builds the
// lookup snapshot.
func LoadResolver(path string) (Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening securities file: %w", err)
	}
	defer f.Close()

	var records []SecurityRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing securities file: %w", err)
	}

	return NewResolver(records), nil
}

// NewResolver builds a resolver snapshot from parsed records. Later
// records win on duplicate keys, matching a last-write-wins reload of
// the reference file.
func NewResolver(records []SecurityRecord) Resolver {
	ids := make(map[string]string, len(records))
	for _, r := range records {
		if r.SecurityID == "" {
			continue
		}
		ids[securityKey(r.StrikePrice, models.ContractType(r.ContractType))] = r.SecurityID
	}
	return &snapshotResolver{ids: ids}
}

// Resolve returns the security id for a strike and contract type.
// Absence is tolerated here; a missing id surfaces later as an
// order-construction error, never as a silent skip.
func (r *snapshotResolver) Resolve(strike float64, contractType models.ContractType) (string, bool) {
	id, ok := r.ids[securityKey(strike, contractType)]
	return id, ok
}

// Len returns the number of resolvable contracts.
func (r *snapshotResolver) Len() int {
	return len(r.ids)
}

// securityKey builds the canonical lookup key "<strike>_<CE|PE>". The
// strike is formatted with the shortest exact decimal form so "25600"
// and 25600.0 produce the same key.
func securityKey(strike float64, contractType models.ContractType) string {
	return strconv.FormatFloat(strike, 'f', -1, 64) + "_" + string(contractType)
}
