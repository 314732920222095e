package inmem

import (
	"bytes"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matches reports whether doc satisfies filter. Supported: field equality (including membership
// in array fields), $eq, $ne, $gt, $gte, $lt, $lte, $in, $nin, $exists, $regex/$options, and the
// top-level $and/$or.
func matches(doc, filter bson.M) (bool, error) {
	for key, cond := range filter {
		switch key {
		case "$and", "$or":
			clauses, ok := cond.(primitive.A)
			if !ok {
				return false, errors.Errorf("%s needs an array", key)
			}
			matched := false
			for _, clause := range clauses {
				sub, ok := asDoc(clause)
				if !ok {
					return false, errors.Errorf("%s clause must be a document", key)
				}
				ok, err := matches(doc, sub)
				if err != nil {
					return false, err
				}
				if key == "$and" && !ok {
					return false, nil
				}
				matched = matched || ok
			}
			if key == "$or" && !matched {
				return false, nil
			}
		default:
			if strings.HasPrefix(key, "$") {
				return false, errors.Errorf("unsupported operator %s", key)
			}
			value, exists := doc[key]
			ok, err := matchField(value, exists, cond)
			if err != nil || !ok {
				return false, err
			}
		}
	}
	return true, nil
}

func matchField(value interface{}, exists bool, cond interface{}) (bool, error) {
	ops, ok := asDoc(cond)
	if !ok || !isOperatorDoc(ops) {
		return matchEq(value, cond), nil
	}

	if pattern, ok := ops["$regex"]; ok {
		re, err := compileRegex(pattern, ops["$options"])
		if err != nil {
			return false, err
		}
		if !anyValue(value, func(v interface{}) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		}) {
			return false, nil
		}
	}

	for op, operand := range ops {
		var ok bool
		switch op {
		case "$regex", "$options":
			continue
		case "$eq":
			ok = matchEq(value, operand)
		case "$ne":
			ok = !matchEq(value, operand)
		case "$gt", "$gte", "$lt", "$lte":
			ok = anyValue(value, func(v interface{}) bool {
				cmp, comparable := compare(v, operand)
				if !comparable {
					return false
				}
				switch op {
				case "$gt":
					return cmp > 0
				case "$gte":
					return cmp >= 0
				case "$lt":
					return cmp < 0
				default:
					return cmp <= 0
				}
			})
		case "$in", "$nin":
			list, isArr := operand.(primitive.A)
			if !isArr {
				return false, errors.Errorf("%s needs an array", op)
			}
			found := false
			for _, candidate := range list {
				if matchEq(value, candidate) {
					found = true
					break
				}
			}
			ok = found == (op == "$in")
		case "$exists":
			want, _ := operand.(bool)
			ok = exists == want
		default:
			return false, errors.Errorf("unsupported operator %s", op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// matchEq compares whole values, or any element when value is an array.
func matchEq(value, target interface{}) bool {
	if equal(value, target) {
		return true
	}
	if arr, ok := value.(primitive.A); ok {
		for _, elem := range arr {
			if equal(elem, target) {
				return true
			}
		}
	}
	return false
}

func anyValue(value interface{}, pred func(interface{}) bool) bool {
	if arr, ok := value.(primitive.A); ok {
		for _, elem := range arr {
			if pred(elem) {
				return true
			}
		}
		return false
	}
	return pred(value)
}

func isOperatorDoc(doc bson.M) bool {
	if len(doc) == 0 {
		return false
	}
	for k := range doc {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}

func compileRegex(pattern, options interface{}) (*regexp.Regexp, error) {
	var expr, opts string
	switch p := pattern.(type) {
	case string:
		expr = p
	case primitive.Regex:
		expr, opts = p.Pattern, p.Options
	default:
		return nil, errors.Errorf("invalid $regex %T", pattern)
	}
	if o, ok := options.(string); ok {
		opts += o
	}

	flags := ""
	for _, o := range opts {
		switch o {
		case 'i', 'm', 's':
			flags += string(o)
		}
	}
	if flags != "" {
		expr = "(?" + flags + ")" + expr
	}
	return regexp.Compile(expr)
}

func asDoc(v interface{}) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]interface{}:
		return d, true
	case bson.D:
		m := make(bson.M, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func equal(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if da, ok := asDoc(a); ok {
		db, ok := asDoc(b)
		return ok && reflect.DeepEqual(da, db)
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two scalar values of the same BSON type. ok is false if they are not comparable.
func compare(a, b interface{}) (cmp int, ok bool) {
	if fa, isNum := toFloat(a); isNum {
		fb, isNum := toFloat(b)
		if !isNum {
			return 0, false
		}
		return compareFloat(fa, fb), true
	}

	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb), true
		}
	case primitive.DateTime:
		if vb, ok := b.(primitive.DateTime); ok {
			return compareFloat(float64(va), float64(vb)), true
		}
	case primitive.ObjectID:
		if vb, ok := b.(primitive.ObjectID); ok {
			return bytes.Compare(va[:], vb[:]), true
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0, true
			case vb:
				return -1, true
			default:
				return 1, true
			}
		}
	case nil:
		if b == nil {
			return 0, true
		}
		return -1, true // missing values sort first
	}
	if b == nil {
		return 1, true
	}
	return 0, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// applyUpdate returns a copy of doc with the $set and $inc operators of update applied.
func applyUpdate(doc, update bson.M) (bson.M, error) {
	updated := make(bson.M, len(doc))
	for k, v := range doc {
		updated[k] = v
	}

	for op, operand := range update {
		fields, ok := asDoc(operand)
		if !ok {
			return nil, errors.Errorf("%s needs a document", op)
		}
		switch op {
		case "$set":
			for k, v := range fields {
				if k == "_id" && !equal(v, doc["_id"]) {
					return nil, errors.New("the _id field is immutable")
				}
				updated[k] = v
			}
		case "$unset":
			for k := range fields {
				delete(updated, k)
			}
		case "$inc":
			for k, v := range fields {
				sum, err := increment(updated[k], v)
				if err != nil {
					return nil, errors.Wrapf(err, "$inc %s", k)
				}
				updated[k] = sum
			}
		default:
			return nil, errors.Errorf("unsupported update operator %s", op)
		}
	}
	return updated, nil
}

func increment(current, delta interface{}) (interface{}, error) {
	if current == nil {
		current = int32(0)
	}
	switch c := current.(type) {
	case int32:
		if d, ok := delta.(int32); ok {
			if s := int64(c) + int64(d); s >= math.MinInt32 && s <= math.MaxInt32 {
				return int32(s), nil
			}
		}
	}
	cf, ok := toFloat(current)
	if !ok {
		return nil, errors.Errorf("cannot increment non-numeric %T", current)
	}
	df, ok := toFloat(delta)
	if !ok {
		return nil, errors.Errorf("non-numeric increment %T", delta)
	}
	_, curFloat := current.(float64)
	_, delFloat := delta.(float64)
	if curFloat || delFloat {
		return cf + df, nil
	}
	return int64(cf) + int64(df), nil
}
