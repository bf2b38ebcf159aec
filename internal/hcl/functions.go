package hcl

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hexFunc parses a hexadecimal string, with or without a 0x prefix. HCL has
// no hex literal syntax, and addresses are almost always written in hex.
var hexFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "digits", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		digits := strings.ToLower(strings.ReplaceAll(args[0].AsString(), "_", ""))
		u, err := strconv.ParseUint(strings.TrimPrefix(digits, "0x"), 16, 64)
		if err != nil {
			return cty.UnknownVal(cty.Number), fmt.Errorf("invalid hex number %q", args[0].AsString())
		}
		return cty.NumberUIntVal(u), nil
	},
})

// clog2Func is the ceiling of log2, matching SystemVerilog's $clog2.
var clog2Func = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "num", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		var n uint64
		if err := gocty.FromCtyValue(args[0], &n); err != nil {
			return cty.UnknownVal(cty.Number), err
		}
		if n <= 1 {
			return cty.Zero, nil
		}
		return cty.NumberIntVal(int64(bits.Len64(n - 1))), nil
	},
})

func defaultFunctions() map[string]function.Function {
	return map[string]function.Function{
		"hex":      hexFunc,
		"clog2":    clog2Func,
		"parseint": stdlib.ParseIntFunc,
		"max":      stdlib.MaxFunc,
		"min":      stdlib.MinFunc,
		"pow":      stdlib.PowFunc,
		"upper":    stdlib.UpperFunc,
		"lower":    stdlib.LowerFunc,
		"format":   stdlib.FormatFunc,
		"concat":   stdlib.ConcatFunc,
	}
}
