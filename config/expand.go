package config

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"text/template"
)

// expand renders {{ env "NAME" }} and {{ exec "command" }} actions inside a
// config value. Values without actions pass through unchanged. Environment
// reads go through the injected lookup so tests control them.
func expand(value string, lookup LookupFunc) (string, error) {
	tmpl, err := template.New("expand_variables").
		Funcs(template.FuncMap{
			"env": func(envvar string) string {
				v, _ := lookup(envvar)
				return v
			},
			"exec": func(line string) (string, error) {
				if strings.Contains(line, " | ") {
					out, err := exec.Command("sh", "-c", line).Output()
					return strings.TrimSpace(string(out)), err
				}

				l := strings.Split(line, " ")
				if len(l) < 1 {
					return "", errors.New("no command provided")
				}
				cmd := l[0]
				args := l[1:]

				out, err := exec.Command(cmd, args...).Output()
				return strings.TrimSpace(string(out)), err
			},
		}).
		Parse(value)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, nil)
	if err != nil {
		return "", err
	}

	return out.String(), nil
}
