package config

import (
	"encoding/json"

	"github.com/qri-io/jsonschema"
)

var configJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "mode",
            "countries"
        ],
        "additionalProperties": false,
        "properties": {
            "mode": {
                "type": "string",
                "minLength": 1
            },
            "countries": {
                "type": "string",
                "minLength": 1
            },
            "allow_unknown": {
                "type": "boolean"
            },
            "db_path": {
                "type": "string",
                "minLength": 1
            },
            "api_url": {
                "type": "string",
                "minLength": 1
            },
            "url": {
                "type": "string",
                "minLength": 1
            },
            "cache_size": {
                "type": "integer",
                "minimum": 1
            },
            "cache_ttl": {
                "type": "integer",
                "minimum": 1
            },
            "api_timeout": {
                "type": "string",
                "minLength": 2
            },
            "api_workers": {
                "type": "integer",
                "minimum": 1
            },
            "api_rate_limit_interval": {
                "type": "string",
                "minLength": 2
            },
            "api_rate_limit_burst": {
                "type": "integer",
                "minimum": 1
            },
            "api_user_agent": {
                "type": "string",
                "minLength": 1
            }
        }
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()
