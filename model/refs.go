package model

// Role names why one component refers to another.
type Role uint8

const (
	RoleSubClassOf Role = iota + 1
	RoleAssociation
	RoleDatatype
	RoleClass
	RoleSubPropertyOf
	RoleBaseType
	RoleItemType
	RoleMember
	RoleAugmentedClass
	RoleAugmentingProperty
)

var roleNames = [...]string{
	RoleSubClassOf:         "subclass-of",
	RoleAssociation:        "association",
	RoleDatatype:           "datatype",
	RoleClass:              "class",
	RoleSubPropertyOf:      "subproperty-of",
	RoleBaseType:           "base",
	RoleItemType:           "item-type",
	RoleMember:             "member",
	RoleAugmentedClass:     "augmented-class",
	RoleAugmentingProperty: "augmenting-property",
}

func (r Role) String() string {
	if int(r) < len(roleNames) && roleNames[r] != "" {
		return roleNames[r]
	}
	return "unknown"
}

// Reference is one outgoing edge from a component or namespace record.
type Reference struct {
	Role   Role
	Target ID
}

// References lists the set handles c refers to, in field order.
func References(c Component) []Reference {
	var refs []Reference
	add := func(role Role, id ID) {
		if id != 0 {
			refs = append(refs, Reference{Role: role, Target: id})
		}
	}
	switch c := c.(type) {
	case *ClassType:
		add(RoleSubClassOf, c.SubClassOf)
		for i := range c.Properties {
			add(RoleAssociation, c.Properties[i].Property)
		}
	case *DataProperty:
		add(RoleSubPropertyOf, c.SubPropertyOf)
		add(RoleDatatype, c.Datatype)
	case *ObjectProperty:
		add(RoleSubPropertyOf, c.SubPropertyOf)
		add(RoleClass, c.Class)
	case *Restriction:
		add(RoleBaseType, c.BaseType)
	case *Union:
		for _, member := range c.Members {
			add(RoleMember, member)
		}
	case *ListType:
		add(RoleItemType, c.ItemType)
	case *Datatype:
	}
	return refs
}

// AugmentReferences lists the handles the augmentation records of ns refer to.
func AugmentReferences(ns *Namespace) []Reference {
	var refs []Reference
	for _, rec := range ns.Augmentations {
		if rec.Class != 0 {
			refs = append(refs, Reference{Role: RoleAugmentedClass, Target: rec.Class})
		}
		if rec.Property != 0 {
			refs = append(refs, Reference{Role: RoleAugmentingProperty, Target: rec.Property})
		}
	}
	return refs
}
