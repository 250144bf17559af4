package sizing

import (
	"encoding/json"

	"solar_sizer/internal/model"
)

// MergeConfig decodes a partial JSON configuration over base and validates
// the result. Fields absent from patch keep their base values; an empty or
// null patch returns base unchanged after validation.
func MergeConfig(base model.SystemConfig, patch []byte) (model.SystemConfig, error) {
	cfg := base
	if len(patch) > 0 && string(patch) != "null" {
		if err := json.Unmarshal(patch, &cfg); err != nil {
			return model.SystemConfig{}, invalidf("decoding configuration: %v", err)
		}
	}
	if err := ValidateConfig(cfg); err != nil {
		return model.SystemConfig{}, err
	}
	return cfg, nil
}
