package declare

import (
	"fmt"
	"sort"

	"github.com/conduit-lang/collections/internal/orm/schema"
)

// Field kinds accepted in declaration files
const (
	KindField                   = "field"
	KindPrimaryKey              = "primary_key"
	KindString                  = "string"
	KindText                    = "text"
	KindBoolean                 = "boolean"
	KindInteger                 = "integer"
	KindBigInteger              = "bigInteger"
	KindFloat                   = "float"
	KindDecimal                 = "decimal"
	KindDateTime                = "datetime"
	KindTimestamp               = "timestamp"
	KindDate                    = "date"
	KindTime                    = "time"
	KindJSON                    = "json"
	KindCSV                     = "csv"
	KindUUID                    = "uuid"
	KindHash                    = "hash"
	KindGeometry                = "geometry"
	KindGeometryPoint           = "geometry_point"
	KindGeometryLineString      = "geometry_linestring"
	KindGeometryPolygon         = "geometry_polygon"
	KindGeometryMultiPoint      = "geometry_multipoint"
	KindGeometryMultiLineString = "geometry_multilinestring"
	KindGeometryMultiPolygon    = "geometry_multipolygon"
	KindFile                    = "file"
	KindImage                   = "image"
	KindUserCreated             = "user_created"
	KindRoleCreated             = "role_created"
	KindUserUpdated             = "user_updated"
	KindRoleUpdated             = "role_updated"
	KindDateCreated             = "date_created"
	KindDateUpdated             = "date_updated"
)

type helper func(c *schema.Collection, name string) *schema.Field

var helpers = map[string]helper{
	KindString:                  (*schema.Collection).String,
	KindText:                    (*schema.Collection).Text,
	KindBoolean:                 (*schema.Collection).Boolean,
	KindInteger:                 (*schema.Collection).Integer,
	KindBigInteger:              (*schema.Collection).BigInteger,
	KindFloat:                   (*schema.Collection).Float,
	KindDateTime:                (*schema.Collection).DateTime,
	KindTimestamp:               (*schema.Collection).Timestamp,
	KindDate:                    (*schema.Collection).Date,
	KindTime:                    (*schema.Collection).Time,
	KindJSON:                    (*schema.Collection).JSON,
	KindCSV:                     (*schema.Collection).CSV,
	KindHash:                    (*schema.Collection).Hash,
	KindGeometry:                (*schema.Collection).Geometry,
	KindGeometryPoint:           (*schema.Collection).GeometryPoint,
	KindGeometryLineString:      (*schema.Collection).GeometryLineString,
	KindGeometryPolygon:         (*schema.Collection).GeometryPolygon,
	KindGeometryMultiPoint:      (*schema.Collection).GeometryMultiPoint,
	KindGeometryMultiLineString: (*schema.Collection).GeometryMultiLineString,
	KindGeometryMultiPolygon:    (*schema.Collection).GeometryMultiPolygon,
	KindFile:                    (*schema.Collection).File,
	KindImage:                   (*schema.Collection).Image,
	KindUserCreated:             (*schema.Collection).UserCreated,
	KindRoleCreated:             (*schema.Collection).RoleCreated,
	KindUserUpdated:             (*schema.Collection).UserUpdated,
	KindRoleUpdated:             (*schema.Collection).RoleUpdated,
	KindDateCreated:             (*schema.Collection).DateCreated,
	KindDateUpdated:             (*schema.Collection).DateUpdated,
}

// Kinds returns every field kind a declaration may use, sorted
func Kinds() []string {
	kinds := []string{KindField, KindPrimaryKey, KindDecimal, KindUUID}
	for kind := range helpers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func compileField(c *schema.Collection, node *FieldNode) error {
	if node.Name == "" {
		return fmt.Errorf("field without name")
	}

	f, err := declareField(c, node)
	if err != nil {
		return err
	}
	return applyFieldOptions(f, node)
}

func declareField(c *schema.Collection, node *FieldNode) (*schema.Field, error) {
	if node.Kind != KindUUID && (node.OnCreate != "" || node.OnUpdate != "") {
		return nil, fmt.Errorf("on_create and on_update require kind uuid, got %s", node.Kind)
	}

	switch node.Kind {
	case KindField, KindPrimaryKey:
		if node.Type == "" {
			return nil, fmt.Errorf("kind %s requires a type", node.Kind)
		}
		t, err := schema.ParseFieldType(node.Type)
		if err != nil {
			return nil, err
		}
		if node.Kind == KindPrimaryKey {
			return c.PrimaryKey(node.Name, t), nil
		}
		return c.Field(node.Name, t), nil

	case KindDecimal:
		precision, scale := 10, 5
		if node.Precision != nil {
			precision = *node.Precision
		}
		if node.Scale != nil {
			scale = *node.Scale
		}
		return c.Decimal(node.Name, precision, scale), nil

	case KindUUID:
		var opts []schema.UUIDOption
		if node.OnCreate != "" {
			kind, err := schema.ParseCreateStamp(node.OnCreate)
			if err != nil {
				return nil, err
			}
			opts = append(opts, schema.OnCreate(kind))
		}
		if node.OnUpdate != "" {
			kind, err := schema.ParseUpdateStamp(node.OnUpdate)
			if err != nil {
				return nil, err
			}
			opts = append(opts, schema.OnUpdate(kind))
		}
		return c.UUID(node.Name, opts...), nil
	}

	h, ok := helpers[node.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown field kind: %q", node.Kind)
	}
	return h(c, node.Name), nil
}

func applyFieldOptions(f *schema.Field, node *FieldNode) error {
	if node.MaxLength != nil {
		f.MaxLength(*node.MaxLength)
	}
	if node.Nullable != nil {
		if *node.Nullable {
			f.Nullable()
		} else {
			f.NotNullable()
		}
	}
	if node.Unique {
		f.Unique()
	}
	if node.Default != nil {
		f.Default(node.Default)
	}
	for _, s := range node.Special {
		f.Special(schema.SpecialKind(s))
	}
	if node.Interface != "" {
		f.Interface(node.Interface, node.Options)
	}
	if node.Display != "" {
		f.Display(node.Display, node.DisplayOptions)
	}
	if node.Required {
		f.Required()
	}
	if node.Readonly {
		f.Readonly()
	}
	if node.Hidden {
		f.Hidden()
	}
	if node.Width != "" {
		f.Width(node.Width)
	}
	if node.Note != "" {
		f.Note(node.Note)
	}
	if node.Relation != nil {
		f.Relation(*node.Relation)
	}
	if node.OnDelete != "" {
		action, err := schema.ParseOnDeleteAction(node.OnDelete)
		if err != nil {
			return err
		}
		f.OnDelete(action)
	}
	return nil
}
