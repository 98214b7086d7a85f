// Package ident reads the XUPS-MIB identification group of a UPS.
package ident

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/check-xups-alarms/internal/logger"
	"github.com/oshokin/check-xups-alarms/internal/oids"
	"github.com/oshokin/check-xups-alarms/internal/service/common"
)

// errNoIdentity is returned when the device reports none of the identification objects.
var errNoIdentity = errors.New("device did not report XUPS identification")

// Options controls the identification query.
type Options struct {
	common.Target

	// Dial opens the poller. Nil uses SNMP.
	Dial common.DialFunc
}

// Info is the manufacturer information reported by the UPS.
type Info struct {
	Manufacturer    string
	Model           string
	SoftwareVersion string
	OemCode         string
}

// String renders the information as one line per non-empty field.
func (i *Info) String() string {
	fields := []struct {
		label, value string
	}{
		{"Manufacturer", i.Manufacturer},
		{"Model", i.Model},
		{"Software version", i.SoftwareVersion},
		{"OEM code", i.OemCode},
	}

	var b strings.Builder

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}

	return b.String()
}

// Run polls the identification group in one request.
func Run(ctx context.Context, opts *Options) (*Info, error) {
	ctx = logger.WithName(ctx, "manufacturer")

	cfg, err := common.Resolve(&opts.Target)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithKV(ctx, "host", opts.Host)

	p, err := common.Connect(ctx, opts.Host, cfg, opts.Dial)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = p.Close()
	}()

	values, err := p.PollStrings(ctx,
		oids.IdentManufacturer,
		oids.IdentModel,
		oids.IdentSoftwareVersion,
		oids.IdentOemCode,
	)
	if err != nil {
		return nil, fmt.Errorf("poll identification: %w", err)
	}

	info := &Info{
		Manufacturer:    values[oids.IdentManufacturer],
		Model:           values[oids.IdentModel],
		SoftwareVersion: values[oids.IdentSoftwareVersion],
		OemCode:         values[oids.IdentOemCode],
	}

	if info.Manufacturer == "" && info.Model == "" && info.SoftwareVersion == "" {
		return nil, errNoIdentity
	}

	logger.DebugKV(ctx, "Identification read", "manufacturer", info.Manufacturer, "model", info.Model)

	return info, nil
}
