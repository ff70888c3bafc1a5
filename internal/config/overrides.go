package config

// Overrides are command-line values applied on top of the config file.
// Nil pointers and empty strings leave the loaded value untouched.
type Overrides struct {
	Debug     bool
	LogFile   string
	Dir       string
	Pattern   string
	Attribute string
	Script    string
	RealValue *bool
	MinValue  *float32
	MaxValue  *float32
	Start     *int
	End       *int
}

// apply applies the overrides to cfg.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.Dir != "" {
		cfg.Sequence.Dir = o.Dir
		cfg.Sequence.Files = nil
	}
	if o.Pattern != "" {
		cfg.Sequence.Pattern = o.Pattern
	}
	if o.Attribute != "" {
		cfg.Importer.Attribute = o.Attribute
	}
	if o.Script != "" {
		cfg.Importer.Script = o.Script
	}
	if o.RealValue != nil {
		cfg.Importer.UseRealValue = *o.RealValue
	}
	if o.MinValue != nil {
		cfg.Importer.MinValue = *o.MinValue
	}
	if o.MaxValue != nil {
		cfg.Importer.MaxValue = *o.MaxValue
	}
	if o.Start != nil {
		cfg.Playback.Start = *o.Start
	}
	if o.End != nil {
		cfg.Playback.End = *o.End
	}
}
