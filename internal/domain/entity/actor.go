package entity

// ActorKind distinguishes a persisted account from the builtin support admin,
// which authenticates with a configured token and has no user record.
type ActorKind string

const (
	ActorBuiltinAdmin ActorKind = "builtin_admin"
	ActorUser         ActorKind = "user"
)

// Actor is the authenticated identity behind a request. Code that needs a
// persisted reference (thread assignment, order ownership) must check Kind
// instead of comparing against a sentinel user id.
type Actor struct {
	Kind   ActorKind
	UserID string // empty when Kind == ActorBuiltinAdmin
	Name   string
	Admin  bool
}

func BuiltinAdminActor() Actor {
	return Actor{Kind: ActorBuiltinAdmin, Name: "Support", Admin: true}
}

func UserActor(user *User) Actor {
	return Actor{
		Kind:   ActorUser,
		UserID: user.ID,
		Name:   user.Username,
		Admin:  user.IsAdmin(),
	}
}

// Side reports which side of a support thread the actor speaks for.
func (a Actor) Side() string {
	if a.Admin {
		return SenderAdmin
	}
	return SenderUser
}

// Assignable reports whether the actor can be stored as a thread's assigned
// admin. The builtin admin is never persisted as a reference.
func (a Actor) Assignable() bool {
	return a.Admin && a.Kind == ActorUser && a.UserID != ""
}
