package sqlbuild

import "testing"

func TestDeleteBuild(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (string, error)
		want    string
		wantErr bool
	}{
		{
			name: "delete with where",
			build: func() (string, error) {
				return NewDelete(MySQL).From("users").
					Where(Eq(Int("id", 7))).Build()
			},
			want: "DELETE FROM `users` WHERE `id` = 7",
		},
		{
			name: "delete all renders as-is",
			build: func() (string, error) {
				return NewDelete(MySQL).From("sessions").Build()
			},
			want: "DELETE FROM `sessions`",
		},
		{
			name: "composite key with null",
			build: func() (string, error) {
				return NewDelete(MySQL).From("events").
					Where(Eq(String("kind", "login")), Eq(Null("user_id"))).Build()
			},
			want: "DELETE FROM `events` WHERE `kind` = 'login' AND `user_id` IS NULL",
		},
		{
			name: "ansi schema qualified",
			build: func() (string, error) {
				return NewDelete(ANSI).
					FromRef(TableRef{Schema: "app", Name: "users"}).
					Where(Eq(Int("id", 1))).Build()
			},
			want: `DELETE FROM "app"."users" WHERE "id" = 1`,
		},
		{
			name: "no table",
			build: func() (string, error) {
				return NewDelete(MySQL).Build()
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

func TestTruncateBuild(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (string, error)
		want    string
		wantErr bool
	}{
		{
			name: "plain",
			build: func() (string, error) {
				return NewTruncate(MySQL).Table("sessions").Build()
			},
			want: "TRUNCATE TABLE `sessions`",
		},
		{
			name: "schema qualified",
			build: func() (string, error) {
				return NewTruncate(ANSI).
					TableRef(TableRef{Schema: "app", Name: "sessions"}).Build()
			},
			want: `TRUNCATE TABLE "app"."sessions"`,
		},
		{
			name: "no table",
			build: func() (string, error) {
				return NewTruncate(MySQL).Build()
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
