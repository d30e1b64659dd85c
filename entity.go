package kiroku

// Entity represents a unique entity in the world.
type Entity struct {
	ID      uint32 // The unique ID of the entity.
	Version uint32 // The version of the entity, used to check for validity.
}

// entityMeta stores metadata about an entity.
type entityMeta struct {
	Archetype *Archetype // A pointer to the entity's archetype.
	Index     int        // The entity's row within the archetype.
	Version   uint32     // The current version of the entity.
}
