package cmdtree

import (
	"strings"
	"testing"

	"github.com/napalu/cmdtree/parse"
	"github.com/stretchr/testify/assert"
)

func FuzzParse(f *testing.F) {
	// Seed corpus with edge cases
	f.Add("build -t linux")
	f.Add("b -vj8 --target=こんにちは")
	f.Add("build -- -v --target")
	f.Add("build -t")
	f.Add("build --jobs -123 -t x")
	f.Add("remote add")
	f.Add("r ls -")
	f.Add("help remote add")
	f.Add("--help build")
	f.Add("config")
	f.Add("BUILD -T a -T b --tag=c file1 file2")
	f.Add("   ")
	f.Fuzz(func(t *testing.T, raw string) {
		args, err := parse.Split(raw)
		if err != nil {
			return
		}

		reg := treeRegistry(t, DefaultConfig())
		res, rerrs := Resolve(reg, args)

		// Resolution either succeeds on an executable command or fails with a single error
		if len(rerrs) > 0 {
			assert.Nil(t, res)
			assert.Len(t, rerrs, 1)
			return
		}
		if !assert.NotNil(t, res) {
			return
		}
		assert.True(t, res.Node.IsExecutable())
		assert.LessOrEqual(t, len(res.Remaining), len(args))

		first, ferrs := Bind(res.Node, res.Remaining, reg.Config())
		second, serrs := Bind(res.Node, res.Remaining, reg.Config())

		// Binding is a pure function of its input
		assert.Equal(t, ferrs.Kinds(), serrs.Kinds())
		assert.Equal(t, ferrs.Error(), serrs.Error())
		if len(ferrs) > 0 {
			assert.Nil(t, first)
			for _, e := range ferrs {
				assert.NotEmpty(t, e.Error())
				assert.False(t, strings.Contains(e.Error(), "%!"), e.Error())
			}
			return
		}
		assert.Equal(t, first.Values(), second.Values())
		assert.Equal(t, first.Target(), second.Target())
		assert.Empty(t, first.Extra)
	})
}
