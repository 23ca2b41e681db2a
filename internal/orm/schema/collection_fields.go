package schema

import "fmt"

// StampKind selects who or what stamps a uuid field on create or update
type StampKind string

const (
	StampUUID StampKind = "uuid"
	StampUser StampKind = "user"
	StampRole StampKind = "role"
)

// ParseCreateStamp converts a string to a create stamp: uuid, user or role
func ParseCreateStamp(s string) (StampKind, error) {
	switch StampKind(s) {
	case StampUUID, StampUser, StampRole:
		return StampKind(s), nil
	default:
		return "", fmt.Errorf("unknown on_create stamp: %s (use uuid, user or role)", s)
	}
}

// ParseUpdateStamp converts a string to an update stamp: user or role
func ParseUpdateStamp(s string) (StampKind, error) {
	switch StampKind(s) {
	case StampUser, StampRole:
		return StampKind(s), nil
	default:
		return "", fmt.Errorf("unknown on_update stamp: %s (use user or role)", s)
	}
}

// DefaultStringLength is the max_length of fields declared with String
const DefaultStringLength = 255

const (
	userTemplate = "{{avatar.$thumbnail}} {{first_name}} {{last_name}}"
	roleTemplate = "{{name}}"
)

// PrimaryKey declares the primary key field. integer keys auto increment, uuid keys are
// generated (special "uuid"), string keys are supplied by the caller.
// At most one primary key per collection is expected but not enforced here.
func (c *Collection) PrimaryKey(name string, t FieldType) *Field {
	f := c.Field(name, t).NotNullable().PK()
	switch t {
	case TypeInteger:
		f.AutoIncrement()
	case TypeUUID:
		f.Special(SpecialUUID)
	}
	return f
}

// String declares a string field with a max_length of DefaultStringLength
func (c *Collection) String(name string) *Field {
	return c.Field(name, TypeString).MaxLength(DefaultStringLength)
}

// Text declares a long text field
func (c *Collection) Text(name string) *Field {
	return c.Field(name, TypeText)
}

// Boolean declares a boolean field cast through the boolean special
func (c *Collection) Boolean(name string) *Field {
	return c.Field(name, TypeBoolean).Special(SpecialBoolean)
}

// Integer declares a 32 bit integer field
func (c *Collection) Integer(name string) *Field {
	return c.Field(name, TypeInteger)
}

// BigInteger declares a 64 bit integer field
func (c *Collection) BigInteger(name string) *Field {
	return c.Field(name, TypeBigInteger)
}

// Float declares a floating point field
func (c *Collection) Float(name string) *Field {
	return c.Field(name, TypeFloat)
}

// Decimal declares a decimal field with the given precision and scale
func (c *Collection) Decimal(name string, precision, scale int) *Field {
	return c.Field(name, TypeDecimal).Precision(precision, scale)
}

// DateTime declares a date and time field without timezone
func (c *Collection) DateTime(name string) *Field {
	return c.Field(name, TypeDateTime)
}

// Timestamp declares a timestamp field
func (c *Collection) Timestamp(name string) *Field {
	return c.Field(name, TypeTimestamp)
}

// Date declares a date field
func (c *Collection) Date(name string) *Field {
	return c.Field(name, TypeDate)
}

// Time declares a time of day field
func (c *Collection) Time(name string) *Field {
	return c.Field(name, TypeTime)
}

// JSON declares a json field cast through the json special
func (c *Collection) JSON(name string) *Field {
	return c.Field(name, TypeJSON).Special(SpecialJSON)
}

// CSV declares a comma separated values field
func (c *Collection) CSV(name string) *Field {
	return c.Field(name, TypeCSV).Special(SpecialCSV)
}

// Hash declares a field whose values are hashed on write
func (c *Collection) Hash(name string) *Field {
	return c.Field(name, TypeHash).Special(SpecialHash)
}

type uuidStamps struct {
	onCreate StampKind
	onUpdate StampKind
}

// UUIDOption selects the create or update stamp of a uuid field
type UUIDOption func(*uuidStamps)

// OnCreate stamps the field on create: StampUUID, StampUser or StampRole
func OnCreate(kind StampKind) UUIDOption {
	return func(s *uuidStamps) {
		s.onCreate = kind
	}
}

// OnUpdate stamps the field on update: StampUser or StampRole
func OnUpdate(kind StampKind) UUIDOption {
	return func(s *uuidStamps) {
		s.onUpdate = kind
	}
}

// UUID declares a uuid field. The create stamp tag is appended before the update stamp tag;
// both apply independently. Unknown kinds add no tag.
func (c *Collection) UUID(name string, opts ...UUIDOption) *Field {
	var stamps uuidStamps
	for _, opt := range opts {
		opt(&stamps)
	}

	f := c.Field(name, TypeUUID)
	switch stamps.onCreate {
	case StampUUID:
		f.Special(SpecialUUID)
	case StampUser:
		f.Special(SpecialUserCreated)
	case StampRole:
		f.Special(SpecialRoleCreated)
	}
	switch stamps.onUpdate {
	case StampUser:
		f.Special(SpecialUserUpdated)
	case StampRole:
		f.Special(SpecialRoleUpdated)
	}
	return f
}

// UserCreated declares a field stamped with the creating user
func (c *Collection) UserCreated(name string) *Field {
	return c.UUID(name, OnCreate(StampUser)).
		Interface("select-dropdown-m2o", Options{"template": userTemplate}).
		Display("user", nil).
		Readonly().Hidden().Width("half").
		Relation(CollectionUsers).OnDelete(OnDeleteSetNull)
}

// RoleCreated declares a field stamped with the creating user's role
func (c *Collection) RoleCreated(name string) *Field {
	return c.UUID(name, OnCreate(StampRole)).
		Interface("select-dropdown-m2o", Options{"template": roleTemplate}).
		Display("related-values", Options{"template": roleTemplate}).
		Readonly().Hidden().Width("half").
		Relation(CollectionRoles).OnDelete(OnDeleteSetNull)
}

// UserUpdated declares a field stamped with the last updating user
func (c *Collection) UserUpdated(name string) *Field {
	return c.UUID(name, OnUpdate(StampUser)).
		Interface("select-dropdown-m2o", Options{"template": userTemplate}).
		Display("user", nil).
		Readonly().Hidden().Width("half").
		Relation(CollectionUsers).OnDelete(OnDeleteSetNull)
}

// RoleUpdated declares a field stamped with the last updating user's role
func (c *Collection) RoleUpdated(name string) *Field {
	return c.UUID(name, OnUpdate(StampRole)).
		Interface("select-dropdown-m2o", Options{"template": roleTemplate}).
		Display("related-values", Options{"template": roleTemplate}).
		Readonly().Hidden().Width("half").
		Relation(CollectionRoles).OnDelete(OnDeleteSetNull)
}

// DateCreated declares a timestamp set when an item is created
func (c *Collection) DateCreated(name string) *Field {
	return c.Timestamp(name).
		Special(SpecialDateCreated).
		Interface("datetime", nil).
		Display("datetime", Options{"relative": true}).
		Readonly().Hidden().Width("half")
}

// DateUpdated declares a timestamp set whenever an item is updated
func (c *Collection) DateUpdated(name string) *Field {
	return c.Timestamp(name).
		Special(SpecialDateUpdated).
		Interface("datetime", nil).
		Display("datetime", Options{"relative": true}).
		Readonly().Hidden().Width("half")
}

// Geometry declares a field holding any geometry
func (c *Collection) Geometry(name string) *Field {
	return c.Field(name, TypeGeometry).Interface("map", nil)
}

func (c *Collection) GeometryPoint(name string) *Field {
	return c.geometry(name, TypeGeometryPoint, "Point")
}

func (c *Collection) GeometryLineString(name string) *Field {
	return c.geometry(name, TypeGeometryLineString, "LineString")
}

func (c *Collection) GeometryPolygon(name string) *Field {
	return c.geometry(name, TypeGeometryPolygon, "Polygon")
}

func (c *Collection) GeometryMultiPoint(name string) *Field {
	return c.geometry(name, TypeGeometryMultiPoint, "MultiPoint")
}

func (c *Collection) GeometryMultiLineString(name string) *Field {
	return c.geometry(name, TypeGeometryMultiLineString, "MultiLineString")
}

func (c *Collection) GeometryMultiPolygon(name string) *Field {
	return c.geometry(name, TypeGeometryMultiPolygon, "MultiPolygon")
}

func (c *Collection) geometry(name string, t FieldType, geometryType string) *Field {
	return c.Field(name, t).Interface("map", Options{"geometryType": geometryType})
}

// File declares a reference to an uploaded file
func (c *Collection) File(name string) *Field {
	return c.UUID(name).
		Special(SpecialFile).
		Interface("file", nil).
		Display("file", nil).
		Relation(CollectionFiles).OnDelete(OnDeleteSetNull)
}

// Image declares a reference to an uploaded image
func (c *Collection) Image(name string) *Field {
	return c.UUID(name).
		Special(SpecialFile).
		Interface("file-image", nil).
		Display("image", nil).
		Relation(CollectionFiles).OnDelete(OnDeleteSetNull)
}
