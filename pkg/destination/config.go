package destination

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ClientConfig is the configuration a destination client is constructed
// from. Concrete destinations embed one of the structs below and add
// their connection settings.
type ClientConfig interface {
	// DestinationType returns the registered destination type name.
	DestinationType() string
}

// DatasetBinder marks configuration types that are multi-schema and
// multi-dataset capable: they receive the dataset name and default
// schema name explicitly. Configurations without this capability belong
// to single-dataset destinations and are constructed unbound.
type DatasetBinder interface {
	BindDataset(datasetName, defaultSchemaName string)
}

// StagingCapable marks configurations usable in the staging role.
type StagingCapable interface {
	ClientConfig
	AsStaging() bool
	MarkStaging()
}

// StagingAttacher marks destination configurations that can embed a
// staging destination's configuration. Attachment happens before the
// destination client is constructed because construction may depend on
// staging location data.
type StagingAttacher interface {
	AttachStaging(cfg StagingCapable)
}

// DwhConfig is the base configuration of a multi-dataset warehouse
// destination. It implements DatasetBinder.
type DwhConfig struct {
	Type              string `mapstructure:"type"`
	DatasetName       string `mapstructure:"dataset_name"`
	DefaultSchemaName string `mapstructure:"default_schema_name"`

	// Staging reports whether this configuration plays the staging role
	// for another destination.
	Staging bool `mapstructure:"staging"`
}

// DestinationType implements ClientConfig.
func (c *DwhConfig) DestinationType() string {
	return c.Type
}

// BindDataset implements DatasetBinder.
func (c *DwhConfig) BindDataset(datasetName, defaultSchemaName string) {
	c.DatasetName = datasetName
	c.DefaultSchemaName = defaultSchemaName
}

// AsStaging implements StagingCapable.
func (c *DwhConfig) AsStaging() bool {
	return c.Staging
}

// MarkStaging implements StagingCapable.
func (c *DwhConfig) MarkStaging() {
	c.Staging = true
}

// DwhWithStagingConfig is a warehouse configuration that can carry a
// staging destination's configuration, for load-through-staging setups.
type DwhWithStagingConfig struct {
	DwhConfig `mapstructure:",squash"`

	StagingConfig StagingCapable `mapstructure:"-"`
}

// AttachStaging implements StagingAttacher.
func (c *DwhWithStagingConfig) AttachStaging(cfg StagingCapable) {
	c.StagingConfig = cfg
}

// DecodeConfig decodes destination settings from a profile map into a
// concrete configuration spec.
func DecodeConfig(settings map[string]any, spec ClientConfig) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           spec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build config decoder: %w", err)
	}
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("decode %s destination config: %w", spec.DestinationType(), err)
	}
	return nil
}
