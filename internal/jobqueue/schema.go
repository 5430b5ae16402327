package jobqueue

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	scerrors "github.com/standardbeagle/scite-core/internal/errors"
	"github.com/standardbeagle/scite-core/internal/pathmodel"
)

// submissionSchema describes the JSON body accepted by the CLI's
// `job run --json` form (spec §6 CLI surface), grounded on the teacher's
// jsonschema-go tool-input schemas (internal/mcp/server.go's
// *jsonschema.Schema literals), generalised here from an MCP tool's
// InputSchema to a CLI JSON-body validator.
var submissionSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"command": {
			Type:        "string",
			Description: "Shell command line to execute",
		},
		"working_dir": {
			Type:        "string",
			Description: "Directory the command runs in",
		},
		"stdin": {
			Type:        "string",
			Description: "Text piped to the command's standard input",
		},
		"subsystem": {
			Type: "string",
			Enum: []any{"cli", "gui", "shell", "extension", "help", "otherhelp", "grep"},
		},
		"quiet": {
			Type:        "boolean",
			Description: "Suppress the exit-code summary line",
		},
	},
	Required: []string{"command"},
}

var resolvedSubmissionSchema *jsonschema.Resolved

func init() {
	resolved, err := submissionSchema.Resolve(nil)
	if err != nil {
		panic("jobqueue: invalid embedded JSON schema: " + err.Error())
	}
	resolvedSubmissionSchema = resolved
}

type jobSubmission struct {
	Command    string `json:"command"`
	WorkingDir string `json:"working_dir"`
	Stdin      string `json:"stdin"`
	Subsystem  string `json:"subsystem"`
	Quiet      bool   `json:"quiet"`
}

// ParseJobJSON validates data against submissionSchema, then converts it
// into a Job. Used by the CLI's `job run --json` command (SPEC_FULL.md §B
// Domain Stack: jsonschema-go wired into JobQueue JSON submission).
func ParseJobJSON(data []byte) (Job, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return Job{}, scerrors.NewConfigError("job.json", string(data), err)
	}
	if err := resolvedSubmissionSchema.Validate(generic); err != nil {
		return Job{}, scerrors.NewConfigError("job.json", string(data), err)
	}

	var sub jobSubmission
	if err := json.Unmarshal(data, &sub); err != nil {
		return Job{}, scerrors.NewConfigError("job.json", string(data), err)
	}

	dir, _ := pathmodel.Absolute(sub.WorkingDir)
	job := Job{
		Command:    sub.Command,
		WorkingDir: dir,
		StdinText:  sub.Stdin,
		Kind:       subsystemFromString(sub.Subsystem),
	}
	if sub.Quiet {
		job.Flags |= FlagQuiet
	}
	return job, nil
}

func subsystemFromString(s string) Subsystem {
	switch s {
	case "gui":
		return SubsystemGUI
	case "shell":
		return SubsystemShell
	case "extension":
		return SubsystemExtension
	case "help":
		return SubsystemHelp
	case "otherhelp":
		return SubsystemOtherHelp
	case "grep":
		return SubsystemGrep
	default:
		return SubsystemCLI
	}
}
