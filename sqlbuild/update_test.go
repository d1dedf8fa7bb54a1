package sqlbuild

import "testing"

func TestUpdateBuild(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (string, error)
		want    string
		wantErr bool
	}{
		{
			name: "set with where",
			build: func() (string, error) {
				return NewUpdate(MySQL).Table("users").
					Set(String("name", "bob")).
					Where(Eq(Int("id", 7))).Build()
			},
			want: "UPDATE `users` SET `name` = 'bob' WHERE `id` = 7",
		},
		{
			name: "multiple assignments",
			build: func() (string, error) {
				return NewUpdate(MySQL).Table("users").
					Set(String("name", "bob"), Int("age", 31), Null("nickname")).
					Where(Eq(Int("id", 7))).Build()
			},
			want: "UPDATE `users` SET `name` = 'bob', `age` = 31, `nickname` = NULL WHERE `id` = 7",
		},
		{
			name: "raw assignment",
			build: func() (string, error) {
				return NewUpdate(MySQL).Table("counters").
					Set(Raw("hits", "hits + 1")).
					Where(Eq(String("key", "home"))).Build()
			},
			want: "UPDATE `counters` SET `hits` = hits + 1 WHERE `key` = 'home'",
		},
		{
			name: "no where renders as-is",
			build: func() (string, error) {
				return NewUpdate(MySQL).Table("users").
					Set(Bool("active", false)).Build()
			},
			want: "UPDATE `users` SET `active` = 0",
		},
		{
			name: "null key in where renders IS NULL",
			build: func() (string, error) {
				return NewUpdate(MySQL).Table("users").
					Set(Bool("archived", true)).
					Where(Eq(Null("deleted_at"))).Build()
			},
			want: "UPDATE `users` SET `archived` = 1 WHERE `deleted_at` IS NULL",
		},
		{
			name: "ansi dialect",
			build: func() (string, error) {
				return NewUpdate(ANSI).Table("users").
					Set(Bool("active", true)).
					Where(Eq(Int("id", 1))).Build()
			},
			want: `UPDATE "users" SET "active" = TRUE WHERE "id" = 1`,
		},
		{
			name: "no table",
			build: func() (string, error) {
				return NewUpdate(MySQL).Set(Int("id", 1)).Build()
			},
			wantErr: true,
		},
		{
			name: "no assignments",
			build: func() (string, error) {
				return NewUpdate(MySQL).Table("users").
					Where(Eq(Int("id", 1))).Build()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}
