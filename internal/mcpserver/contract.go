package mcpserver

// DocumentFormatContract describes the sequence document format that LLM
// consumers should follow when creating or replacing documents.
const DocumentFormatContract = `# vistrack Sequence Document Contract

Every sequence is stored as one YAML document.

## Structure

` + "```" + `yaml
name: Shot010                  # REQUIRED - sequence name
frame_rate: 24                 # OPTIONAL - frames per second, > 0 (default 30)
tracks:                        # ordered list; position is the track index
  - kind: visibility           # REQUIRED - only "visibility" is supported
    name: DoorVisibility       # REQUIRED - track name, non-empty
    interpolation: Constant    # OPTIONAL - Linear (default), Constant or Cubic
    propagate_to_children: true  # OPTIONAL - default true
    frames:                    # ordered list; position is the frame index
      - frame: 0
        visible: true
      - frame: 48
        visible: false
` + "```" + `

## Rules

1. **Frames keep insertion order.** They are never sorted or deduplicated;
   the same frame number may appear more than once and negative numbers are
   allowed.
2. **Indexes are positions.** Tools address tracks and frames by their
   zero-based position. Removing an entry shifts every later entry down by one.
3. **Interpolation names are case-sensitive**: ` + "`" + `Linear` + "`" + `,
   ` + "`" + `Constant` + "`" + `, ` + "`" + `Cubic` + "`" + `.
4. **Unknown fields are rejected.**
5. **File paths** end with ` + "`" + `.yaml` + "`" + ` and use forward slashes.
6. **Encoding** is UTF-8.

## Tools

- ` + "`" + `create_sequence` + "`" + ` with ` + "`" + `name` + "`" + ` creates an empty sequence;
  with ` + "`" + `content` + "`" + ` it stores a complete document.
- ` + "`" + `add_visibility_track` + "`" + `, ` + "`" + `add_visibility_frame` + "`" + `,
  ` + "`" + `remove_visibility_frame` + "`" + `, ` + "`" + `set_curve_interp_mode` + "`" + ` and
  ` + "`" + `set_propagate_to_children` + "`" + ` edit a stored document in place.
`
