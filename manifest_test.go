package cmdtree

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/napalu/cmdtree/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
commands:
  - name: db
    aliases: [database]
    description: database maintenance
    commands:
      - name: migrate
        executable: true
        default: true
        options:
          - name: steps
            short: [n]
            type: int
            default: 1
            validate: intrange(1,100)
          - name: timeout
            type: duration
            default: 90s
          - name: dry-run
            long: [dry-run, dry]
            type: bool
        values:
          - name: dirs
            order: 0
            type: "[]string"
            default: [migrations]
      - name: seed
        executable: true
        hidden: true
        help-order: 2
        values:
          - name: file
            order: 0
            required: true
            validate: fileext(.sql)
`

func TestLoadManifest(t *testing.T) {
	descs, err := LoadManifest(strings.NewReader(testManifest))
	require.NoError(t, err)

	var paths []string
	for _, d := range descs {
		paths = append(paths, d.Path())
	}
	assert.Equal(t, []string{"db", "db migrate", "db seed"}, paths)

	db := descs[0]
	assert.Equal(t, []string{"database"}, db.Aliases)
	assert.False(t, db.Executable)

	migrate := descs[1]
	assert.True(t, migrate.IsDefault)
	steps, _ := migrate.Option("steps")
	assert.Equal(t, []rune{'n'}, steps.ShortAliases)
	assert.Equal(t, typeOf[int](), steps.Type)
	assert.Equal(t, 1, steps.defaultValue.Interface())
	timeout, _ := migrate.Option("timeout")
	assert.Equal(t, 90*time.Second, timeout.defaultValue.Interface())
	dry, _ := migrate.Option("dry-run")
	assert.Equal(t, []string{"dry-run", "dry"}, dry.LongAliases)
	assert.True(t, dry.IsFlag())
	dirs, _ := migrate.Value("dirs")
	assert.Equal(t, []string{"migrations"}, dirs.defaultValue.Interface())

	seed := descs[2]
	assert.True(t, seed.Hidden)
	assert.Equal(t, 2, seed.HelpOrder)
	file, _ := seed.Value("file")
	assert.Equal(t, typeOf[string](), file.Type)
	require.Len(t, file.Validators, 1)
	assert.NoError(t, file.Validators[0]("seed.SQL"))
	require.Len(t, steps.Validators, 1)
	assert.Empty(t, timeout.Validators)
}

func TestLoadManifest_Empty(t *testing.T) {
	descs, err := LoadManifest(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, descs)
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "not yaml", yaml: "commands: [", wantErr: errs.ErrInvalidManifest},
		{name: "unknown field", yaml: "commands:\n  - name: x\n    colour: red\n", wantErr: errs.ErrInvalidManifest},
		{name: "unknown type", yaml: "commands:\n  - name: x\n    options:\n      - name: o\n        type: complex128\n", wantErr: errs.ErrUnsupportedType},
		{name: "bare slice type", yaml: "commands:\n  - name: x\n    values:\n      - name: v\n        type: \"[]\"\n", wantErr: errs.ErrUnsupportedType},
		{name: "long short alias", yaml: "commands:\n  - name: x\n    options:\n      - name: o\n        short: [ab]\n", wantErr: errs.ErrInvalidManifest},
		{name: "invalid descriptor", yaml: "commands:\n  - name: x\n    values:\n      - name: a\n      - name: b\n", wantErr: errs.ErrDuplicateValueOrder},
		{name: "invalid child", yaml: "commands:\n  - name: x\n    commands:\n      - name: \"bad name\"\n", wantErr: errs.ErrInvalidName},
		{name: "invalid option validator", yaml: "commands:\n  - name: x\n    options:\n      - name: o\n        validate: minlength(x)\n", wantErr: errs.ErrInvalidValidator},
		{name: "unknown value validator", yaml: "commands:\n  - name: x\n    values:\n      - name: v\n        validate: shiny\n", wantErr: errs.ErrUnknownValidator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := LoadManifest(strings.NewReader(tt.yaml))
			assert.Nil(t, descs)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, errs.ErrInvalidManifest)
		})
	}
}

func TestApp_RegisterManifest(t *testing.T) {
	descs, err := LoadManifest(strings.NewReader(testManifest))
	require.NoError(t, err)

	var bound *BoundOptions
	app, _, _ := newTestApp(t)
	err = app.RegisterManifest(descs, map[string]Executor{
		"db migrate": Func(func(cc *Context, opts *BoundOptions) (int, error) {
			bound = opts
			return 0, nil
		}),
		"db seed": Func(noop),
	})
	require.NoError(t, err)

	code, err := app.Run(context.Background(), []string{"database", "-n", "3", "--dry"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	require.NotNil(t, bound)
	assert.Equal(t, "db migrate", bound.Command().Path())
	steps, _ := OptionAs[int](bound, "steps")
	assert.Equal(t, 3, steps)
	dry, _ := OptionAs[bool](bound, "dry-run")
	assert.True(t, dry)
	dirs, _ := OptionAs[[]string](bound, "dirs")
	assert.Equal(t, []string{"migrations"}, dirs)

	_, err = app.Parse([]string{"db", "seed"})
	cerrs, _ := AsCliErrors(err)
	assert.Equal(t, []ErrorKind{ErrorMissingValue}, cerrs.Kinds())

	_, err = app.Parse([]string{"db", "seed", "data.csv"})
	cerrs, _ = AsCliErrors(err)
	require.Equal(t, []ErrorKind{ErrorCustom}, cerrs.Kinds())
	assert.Equal(t, "file", cerrs[0].Value.Name)

	_, err = app.Parse([]string{"db", "migrate", "-n", "0"})
	assert.ErrorIs(t, err, errs.ErrValueOutOfRange)
}

func TestApp_RegisterManifestMissingExecutor(t *testing.T) {
	descs, err := LoadManifest(strings.NewReader(testManifest))
	require.NoError(t, err)

	app, _, _ := newTestApp(t)
	err = app.RegisterManifest(descs, map[string]Executor{"db migrate": Func(noop)})
	assert.ErrorIs(t, err, errs.ErrMissingExecutor)
	_, found := app.Registry().Lookup("db migrate")
	assert.True(t, found, "commands before the failing one stay registered")
	_, found = app.Registry().Lookup("db seed")
	assert.False(t, found)
}
