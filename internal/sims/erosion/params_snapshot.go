package erosion

import (
	"strconv"
	"strings"

	"erosim/internal/core"
)

// Parameters lists the tunables using the keys FromMap accepts.
func (w *World) Parameters() core.ParameterSnapshot {
	return Snapshot(w.cfg)
}

// Snapshot lists the tunables of cfg.
func Snapshot(cfg Config) core.ParameterSnapshot {
	params := cfg.Params
	passes := make([]string, len(cfg.Passes))
	for i, p := range cfg.Passes {
		passes[i] = string(p)
	}
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", cfg.Width),
				intParam("h", "Height", cfg.Height),
				int64Param("seed", "Seed", cfg.Seed),
				floatParam("cell_size", "Cell size", cfg.CellSize),
				stringParam("passes", "Passes", strings.Join(passes, ",")),
			},
		},
		{
			Name:    "Terrain",
			Summary: "Initial bedrock and sediment",
			Params: []core.Parameter{
				stringParam("noise_shape", "Shape", string(cfg.Noise.Shape)),
				stringParam("noise_source", "Noise source", string(cfg.Noise.Source)),
				intParam("noise_octaves", "Octaves", cfg.Noise.Octaves),
				floatParam("noise_frequency", "Base frequency", cfg.Noise.Frequency),
				floatParam("noise_amplitude", "Amplitude", cfg.Noise.Amplitude),
				floatParam("noise_sediment", "Initial sediment", cfg.Noise.Sediment),
			},
		},
		{
			Name: "Thermal",
			Params: []core.Parameter{
				floatParam("thermal_k", "Thermal rate", params.ThermalK),
			},
		},
		{
			Name:    "Transport",
			Summary: "Angle of repose stabilization",
			Params: []core.Parameter{
				floatParam("transport_k", "Transport erosion rate", params.TransportK),
				intParam("transport_passes", "Transport passes", params.TransportPasses),
				floatParam("rest_angle", "Rest angle (deg)", params.RestAngle),
				intParam("transport_max_steps", "Max worklist steps", params.TransportMaxSteps),
			},
		},
		{
			Name: "Hydraulic",
			Params: []core.Parameter{
				floatParam("area_k", "Area erosion rate", params.AreaK),
				stringParam("area_policy", "Flow policy", params.AreaPolicy),
				boolParam("area_transport", "Deposit eroded rock", params.AreaTransport),
				intParam("droplets", "Droplets per step", params.Droplets),
				floatParam("droplet_k", "Droplet rate", params.DropletK),
				floatParam("water_loss", "Water loss per move", params.WaterLoss),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
