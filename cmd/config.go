package cmd

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/cobra"
)

// Config is the immutable configuration handed to the core: flags override
// the config file, the config file overrides defaults.
type Config struct {
	Port    int
	DataDir string
}

type fileConfig struct {
	Port    int    `hcl:"port,optional"`
	DataDir string `hcl:"data_dir,optional"`
}

func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg := Config{Port: port, DataDir: dataDir}
	if configPath == "" {
		return cfg, nil
	}
	fc, err := readConfigFile(configPath)
	if err != nil {
		return Config{}, err
	}
	if !cmd.Flags().Changed("port") && fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if !cmd.Flags().Changed("data") && fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	return cfg, nil
}

func readConfigFile(path string) (fileConfig, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fileConfig{}, fmt.Errorf("parse config %s: %s", path, diags.Error())
	}
	var fc fileConfig
	if diags := gohcl.DecodeBody(f.Body, nil, &fc); diags.HasErrors() {
		return fileConfig{}, fmt.Errorf("decode config %s: %s", path, diags.Error())
	}
	return fc, nil
}
