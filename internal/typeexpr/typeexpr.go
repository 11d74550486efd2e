// Package typeexpr parses the LLVM-flavored type spellings the CLI
// accepts: "void", "label", "float", "double", "i32", "*i8",
// "[10 x i32]", "<4 x float>", "{i8, {i32, i64}}".
package typeexpr

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"strata/internal/types"
)

// Parse interns the type an expression spells and returns its TypeID.
// Every struct literal mints a fresh struct identity.
func Parse(src string, in *types.Interner) (types.TypeID, error) {
	p := &parser{src: src, types: in}
	id, err := p.parseType()
	if err != nil {
		return types.NoTypeID, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return types.NoTypeID, p.errorf("trailing input %q", p.src[p.pos:])
	}
	return id, nil
}

type parser struct {
	src   string
	pos   int
	types *types.Interner
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("type expression %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return p.errorf("expected %q", string(c))
	}
	p.pos++
	return nil
}

func (p *parser) parseType() (types.TypeID, error) {
	p.skipSpace()
	switch p.peek() {
	case '*':
		p.pos++
		elem, err := p.parseType()
		if err != nil {
			return types.NoTypeID, err
		}
		return p.types.Pointer(elem), nil
	case '[':
		return p.parseComposite('[', ']', func(count uint32, elem types.TypeID) types.TypeID {
			return p.types.Array(elem, count)
		})
	case '<':
		return p.parseComposite('<', '>', func(count uint32, elem types.TypeID) types.TypeID {
			return p.types.Vector(elem, count)
		})
	case '{':
		return p.parseStruct()
	default:
		return p.parseScalar()
	}
}

// parseComposite handles "[N x T]" and "<N x T>".
func (p *parser) parseComposite(opener, closer byte, build func(uint32, types.TypeID) types.TypeID) (types.TypeID, error) {
	if err := p.expect(opener); err != nil {
		return types.NoTypeID, err
	}
	count, err := p.parseCount()
	if err != nil {
		return types.NoTypeID, err
	}
	if err := p.expect('x'); err != nil {
		return types.NoTypeID, err
	}
	elem, err := p.parseType()
	if err != nil {
		return types.NoTypeID, err
	}
	if err := p.expect(closer); err != nil {
		return types.NoTypeID, err
	}
	return build(count, elem), nil
}

func (p *parser) parseStruct() (types.TypeID, error) {
	if err := p.expect('{'); err != nil {
		return types.NoTypeID, err
	}
	var fields []types.TypeID
	p.skipSpace()
	if p.peek() != '}' {
		for {
			field, err := p.parseType()
			if err != nil {
				return types.NoTypeID, err
			}
			fields = append(fields, field)
			p.skipSpace()
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
	}
	if err := p.expect('}'); err != nil {
		return types.NoTypeID, err
	}
	return p.types.NewStruct(fields), nil
}

func (p *parser) parseCount() (uint32, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf("expected a count")
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.errorf("bad count: %v", err)
	}
	count, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, p.errorf("count overflow: %v", err)
	}
	return count, nil
}

func (p *parser) parseScalar() (types.TypeID, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isWordByte(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	builtins := p.types.Builtins()
	switch word {
	case "void":
		return builtins.Void, nil
	case "label":
		return builtins.Label, nil
	case "float":
		return builtins.F32, nil
	case "double":
		return builtins.F64, nil
	case "":
		return types.NoTypeID, p.errorf("expected a type")
	}
	if strings.HasPrefix(word, "i") {
		bitsVal, err := strconv.Atoi(word[1:])
		if err == nil && bitsVal > 0 {
			bits, convErr := safecast.Conv[uint32](bitsVal)
			if convErr != nil {
				return types.NoTypeID, p.errorf("width overflow: %v", convErr)
			}
			return p.types.Integer(bits), nil
		}
	}
	return types.NoTypeID, p.errorf("unknown type %q", word)
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
