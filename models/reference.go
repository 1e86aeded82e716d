package models

// Brand, Category and Tag live in collections owned outside this service;
// the catalog only reads them. Their ids keep whatever type the owning store
// gave them (ObjectID, string, integer) and are only rendered at the JSON edge.

type Brand struct {
	ID   interface{} `json:"id" bson:"_id,omitempty" db:"id"`
	Name string      `json:"name" bson:"name" db:"name"`
}

type Category struct {
	ID   interface{} `json:"id" bson:"_id,omitempty" db:"id"`
	Name string      `json:"name" bson:"name" db:"name"`
}

// Tag is also embedded into products as a write-time snapshot.
type Tag struct {
	ID   interface{} `json:"id" bson:"_id,omitempty" db:"id"`
	Name string      `json:"name" bson:"name" db:"name"`
}
