package wallet

import (
	"crypto/ecdsa"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Record is one wallet from the input table. Loaded once per run, immutable.
type Record struct {
	Address    common.Address
	PrivateKey string
	ProxyURL   string // optional, empty = direct
}

// Load reads wallet records from a delimited file with a header row:
// address, privateKey and an optional proxy column. Row order is preserved.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return parse(data)
}

func parse(data []byte) ([]Record, error) {
	delim := detectDelimiter(data)
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comma = delim

	var out []Record
	lineNo := 0
	for {
		row, e := reader.Read()
		if e != nil {
			if errors.Is(e, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse input: %w", e)
		}
		lineNo++
		if skipRow(row, lineNo) {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: not enough columns, expected address,privateKey[,proxy]", lineNo)
		}

		addrHex := strings.TrimSpace(row[0])
		if !common.IsHexAddress(addrHex) {
			return nil, fmt.Errorf("line %d: invalid address %q", lineNo, addrHex)
		}
		rec := Record{
			Address:    common.HexToAddress(addrHex),
			PrivateKey: strings.TrimSpace(row[1]),
		}
		if len(row) > 2 {
			rec.ProxyURL = strings.TrimSpace(row[2])
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, errors.New("input contains no wallet rows")
	}
	return out, nil
}

// Delimiter auto-detect on the first non-empty line.
func detectDelimiter(data []byte) rune {
	for _, l := range strings.Split(string(data), "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if strings.Contains(l, ";") && !strings.Contains(l, ",") {
			return ';'
		}
		break
	}
	return ','
}

func skipRow(row []string, lineNo int) bool {
	if len(row) == 0 {
		return true
	}
	first := strings.TrimSpace(row[0])
	if len(row) == 1 && first == "" {
		return true
	}
	if strings.HasPrefix(first, "#") {
		return true
	}
	if lineNo == 1 {
		head := strings.ToLower(strings.Join(row, ","))
		if strings.Contains(head, "address") && strings.Contains(head, "priv") {
			return true
		}
	}
	return false
}

// Key parses the record's hex ECDSA private key (with / without 0x).
func (r Record) Key() (*ecdsa.PrivateKey, error) {
	h := strings.TrimSpace(strings.TrimPrefix(r.PrivateKey, "0x"))
	if h == "" {
		return nil, errors.New("empty private key")
	}
	return gethcrypto.HexToECDSA(h)
}
