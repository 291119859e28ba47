package core

// Property is one link in an object's singly-linked property chain.
// New properties are prepended, so iteration order is the reverse of
// insertion order unless Enumerate below corrects for it.
type Property struct {
	key          string
	value        Value
	enumerable   bool
	writable     bool
	configurable bool
	next         *Property
}

// HeapObject is the payload for the object tag: a property chain plus an
// optional prototype link (spec.md §4.2/§4.3 — walked only by the
// opt-in instanceof/new path, see DESIGN.md).
type HeapObject struct {
	Header
	props      *Property
	count      int
	prototype  *HeapObject
	extensible bool
	sealed     bool
	frozen     bool
}

// NewHeapObject allocates an empty object with no prototype.
func NewHeapObject(heap *Heap) (*HeapObject, error) {
	o := &HeapObject{extensible: true}
	if err := heap.Alloc(o, KindObject, 0); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *HeapObject) Trace(mark func(Obj)) {
	for p := o.props; p != nil; p = p.next {
		if ref := p.value.HeapRef(); ref != nil {
			mark(ref)
		}
	}
	if o.prototype != nil {
		mark(o.prototype)
	}
}

func (o *HeapObject) find(key string) *Property {
	for p := o.props; p != nil; p = p.next {
		if p.key == key {
			return p
		}
	}
	return nil
}

// Get performs an own-property lookup; it does not walk the prototype
// chain (spec.md's default), returning Undefined when absent.
func (o *HeapObject) Get(key string) Value {
	if p := o.find(key); p != nil {
		return p.value
	}
	return Undefined
}

// GetWithPrototype is an opt-in lookup that walks the prototype chain
// when the own property is absent. GET_PROP, instanceof and NEW do not
// call it.
func (o *HeapObject) GetWithPrototype(key string) Value {
	for cur := o; cur != nil; cur = cur.prototype {
		if p := cur.find(key); p != nil {
			return p.value
		}
	}
	return Undefined
}

// Set assigns key, creating an enumerable/writable own property if
// absent. Returns false without modifying the object if it is frozen, or
// if sealed/non-extensible and key is a new property.
func (o *HeapObject) Set(key string, v Value) bool {
	if p := o.find(key); p != nil {
		if o.frozen || !p.writable {
			return false
		}
		p.value = v
		return true
	}
	if o.frozen || o.sealed || !o.extensible {
		return false
	}
	o.props = &Property{key: key, value: v, enumerable: true, writable: true, configurable: true, next: o.props}
	o.count++
	return true
}

// Define installs or replaces a property with explicit attributes,
// bypassing writability checks (used by the compiler/VM for literals).
func (o *HeapObject) Define(key string, v Value, enumerable, writable, configurable bool) {
	if p := o.find(key); p != nil {
		p.value = v
		p.enumerable = enumerable
		p.writable = writable
		p.configurable = configurable
		return
	}
	o.props = &Property{key: key, value: v, enumerable: enumerable, writable: writable, configurable: configurable, next: o.props}
	o.count++
}

// Delete removes an own property, returning false only when the
// property itself is non-configurable (spec.md §4.2: "delete fails
// only when non-configurable"). Deleting an absent key is a no-op
// success.
func (o *HeapObject) Delete(key string) bool {
	var prev *Property
	for p := o.props; p != nil; p = p.next {
		if p.key == key {
			if !p.configurable {
				return false
			}
			if prev == nil {
				o.props = p.next
			} else {
				prev.next = p.next
			}
			o.count--
			return true
		}
		prev = p
	}
	return true
}

func (o *HeapObject) Has(key string) bool { return o.find(key) != nil }

// Enumerate returns enumerable own keys in insertion order.
func (o *HeapObject) Enumerate() []string {
	rev := make([]string, 0, o.count)
	for p := o.props; p != nil; p = p.next {
		if p.enumerable {
			rev = append(rev, p.key)
		}
	}
	keys := make([]string, len(rev))
	for i, k := range rev {
		keys[len(rev)-1-i] = k
	}
	return keys
}

func (o *HeapObject) SetPrototype(proto *HeapObject) { o.prototype = proto }
func (o *HeapObject) Prototype() *HeapObject         { return o.prototype }

func (o *HeapObject) PreventExtensions() { o.extensible = false }

// Seal makes every current own property non-configurable, matching
// spec.md §4.2's "sealed <=> not extensible AND every property
// non-configurable".
func (o *HeapObject) Seal() {
	o.extensible = false
	o.sealed = true
	for p := o.props; p != nil; p = p.next {
		p.configurable = false
	}
}

// Freeze seals o and additionally makes every own property non-writable
// (spec.md §4.2's "frozen adds non-writable on every property").
func (o *HeapObject) Freeze() {
	o.extensible = false
	o.sealed = true
	o.frozen = true
	for p := o.props; p != nil; p = p.next {
		p.configurable = false
		p.writable = false
	}
}
func (o *HeapObject) IsFrozen() bool     { return o.frozen }
func (o *HeapObject) IsSealed() bool     { return o.sealed }
func (o *HeapObject) IsExtensible() bool { return o.extensible }

// Clone makes a shallow copy: a new object with the same prototype and
// the same enumerable own properties, sharing Value payloads (not
// deep-copying heap refs). Non-enumerable properties are not copied, and
// every copied property is enumerable, writable and configurable.
func Clone(heap *Heap, o *HeapObject) (*HeapObject, error) {
	clone, err := NewHeapObject(heap)
	if err != nil {
		return nil, err
	}
	clone.prototype = o.prototype
	keys := o.Enumerate()
	for _, k := range keys {
		clone.Define(k, o.Get(k), true, true, true)
	}
	return clone, nil
}
