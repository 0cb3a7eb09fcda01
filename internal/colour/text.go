package colour

// MarshalText renders the colour as "#rrggbb" for JSON, TOML and YAML output.
func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses any form accepted by ParseHEX.
func (c *Colour) UnmarshalText(text []byte) error {
	parsed, err := ParseHEX(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
