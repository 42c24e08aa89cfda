package shllink

import (
	"fmt"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// ItemID is one opaque shell namespace identifier.
type ItemID struct {
	Data []byte `json:"data"`
}

// IDList is the LinkTargetIDList structure.
type IDList struct {
	Size  uint16   `json:"size"`
	Items []ItemID `json:"items"`
}

// ReadIDList reads a LinkTargetIDList: a u16 IDListSize followed by that
// many bytes of ItemIDs.
func ReadIDList(c *wire.Cursor) (*IDList, error) {
	size, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read IDListSize: %w", err)
	}
	body, err := c.Sub(int(size))
	if err != nil {
		return nil, fmt.Errorf("failed to read IDList: %w", err)
	}
	items, err := ReadItemIDs(body)
	list := &IDList{Size: size, Items: items}
	if err != nil {
		return list, &IDListDecodeError{Err: err}
	}
	return list, nil
}

// ReadItemIDs reads ItemIDs until the two-byte zero TerminalID.
// Each ItemIDSize counts its own two-byte field.
func ReadItemIDs(c *wire.Cursor) ([]ItemID, error) {
	var items []ItemID
	for {
		size, err := c.ReadU16()
		if err != nil {
			return items, fmt.Errorf("failed to read ItemIDSize: %w", err)
		}
		if size == 0 {
			return items, nil
		}
		if size < 2 {
			return items, fmt.Errorf("invalid ItemIDSize %d at offset %d", size, c.Pos()-2)
		}
		data, err := c.ReadBytes(int(size) - 2)
		if err != nil {
			return items, fmt.Errorf("failed to read ItemID: %w", err)
		}
		items = append(items, ItemID{Data: data})
	}
}
