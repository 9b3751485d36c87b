// Package user contains the User aggregate and the Role value object.
//
// A single aggregate covers all marketplace participants. Role-specific
// behavior (driver availability, staff approval) is guarded by methods rather
// than by separate types, mirroring how the persistence layer stores one users
// table with a role column.
package user
