// Package plistutil provides utilities for working with property lists
package plistutil

import (
	"fmt"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"howett.net/plist"
)

// Format represents the plist format
type Format int

const (
	// FormatXML is the XML plist format
	FormatXML Format = iota
	// FormatBinary is the binary plist format
	FormatBinary
	// FormatOpenStep is the OpenStep plist format
	FormatOpenStep
	// FormatGNUStep is the GNUStep plist format
	FormatGNUStep
)

// toPlistFormat converts our Format to the plist library's format
func toPlistFormat(format Format) (int, error) {
	switch format {
	case FormatXML:
		return plist.XMLFormat, nil
	case FormatBinary:
		return plist.BinaryFormat, nil
	case FormatOpenStep:
		return plist.OpenStepFormat, nil
	case FormatGNUStep:
		return plist.GNUStepFormat, nil
	default:
		return 0, fmt.Errorf("%w: unknown plist format %d", errors.ErrUnsupportedFormat, format)
	}
}

// Marshal encodes v as a property list in the given format. XML output is indented.
func Marshal(v interface{}, format Format) ([]byte, error) {
	plistFormat, err := toPlistFormat(format)
	if err != nil {
		return nil, err
	}

	var data []byte
	if format == FormatXML {
		data, err = plist.MarshalIndent(v, plistFormat, "\t")
	} else {
		data, err = plist.Marshal(v, plistFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}
	return data, nil
}

// Unmarshal decodes a property list of any supported format into v
func Unmarshal(data []byte, v interface{}) error {
	if _, err := plist.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, err.Error())
	}
	return nil
}
