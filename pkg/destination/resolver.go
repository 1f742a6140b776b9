package destination

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/trymzet/dlt/pkg/schema"
)

// ResolveOptions carries the optional inputs of ResolveClients.
type ResolveOptions struct {
	// Settings are profile settings decoded into the destination's
	// configuration spec before binding.
	Settings map[string]any

	// Staging names a staging destination whose configuration, when
	// compatible, is attached to the destination configuration before
	// the destination client is built.
	Staging            Destination
	StagingSettings    map[string]any
	StagingDatasetName string

	// DefaultSchemaName is bound together with the dataset name on
	// multi-dataset configurations.
	DefaultSchemaName string

	Logger *slog.Logger
}

// InitialConfig builds the initial configuration for a destination:
// decode the profile settings into the destination's spec, mark the
// staging role, and bind the dataset name on multi-dataset capable
// configurations. Single-dataset configurations are returned unbound.
func InitialConfig(d Destination, datasetName, defaultSchemaName string, asStaging bool, settings map[string]any) (ClientConfig, error) {
	spec := d.Spec()
	if len(settings) > 0 {
		if err := DecodeConfig(settings, spec); err != nil {
			return nil, err
		}
	}
	if sc, ok := spec.(StagingCapable); ok && asStaging {
		// staging role is part of the config identity, set before binding
		sc.MarkStaging()
	}
	if binder, ok := spec.(DatasetBinder); ok {
		binder.BindDataset(datasetName, defaultSchemaName)
	}
	return spec, nil
}

// ResolveClients builds the destination client (and the staging client,
// when a staging destination is given) for a dataset. The staging
// client is resolved first so its configuration can be attached to the
// destination configuration when both sides support it.
func ResolveClients(sch *schema.Schema, dest Destination, datasetName string, opts ResolveOptions) (Client, Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var stagingClient Client
	if opts.Staging != nil {
		stagingName := opts.StagingDatasetName
		if stagingName == "" {
			stagingName = datasetName
		}
		cfg, err := InitialConfig(opts.Staging, stagingName, opts.DefaultSchemaName, true, opts.StagingSettings)
		if err != nil {
			return nil, nil, err
		}
		stagingClient, err = opts.Staging.Client(sch, cfg, logger)
		if err != nil {
			return nil, nil, wrapConstructionError(opts.Staging, err)
		}
	}

	cfg, err := InitialConfig(dest, datasetName, opts.DefaultSchemaName, false, opts.Settings)
	if err != nil {
		return nil, nil, err
	}

	if stagingClient != nil {
		attacher, canAttach := cfg.(StagingAttacher)
		stagingCfg, isStaging := stagingClient.Config().(StagingCapable)
		if canAttach && isStaging {
			attacher.AttachStaging(stagingCfg)
		}
	}

	client, err := dest.Client(sch, cfg, logger)
	if err != nil {
		return nil, nil, wrapConstructionError(dest, err)
	}

	logger.Debug("resolved destination clients",
		slog.String("destination", dest.Type()),
		slog.String("dataset", datasetName),
		slog.Bool("staging", stagingClient != nil))

	return client, stagingClient, nil
}

// wrapConstructionError maps driver-unavailable failures to the typed
// MissingDependencyError; other construction failures pass through
// wrapped.
func wrapConstructionError(d Destination, err error) error {
	if errors.Is(err, ErrDriverNotRegistered) {
		return &MissingDependencyError{
			DestinationType: d.Type(),
			Extra:           d.Extra(),
			Err:             err,
		}
	}
	return fmt.Errorf("construct %s client: %w", d.Type(), err)
}
