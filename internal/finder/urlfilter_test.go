package finder

import "testing"

func TestFilterYouTube(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "channel path",
			url:  "https://www.youtube.com/channel/UC123abc",
			want: "https://www.youtube.com/channel/UC123abc",
		},
		{
			name: "handle path",
			url:  "https://www.youtube.com/@somecreator",
			want: "https://www.youtube.com/@somecreator",
		},
		{
			name: "custom path",
			url:  "https://youtube.com/c/SomeCreator",
			want: "https://youtube.com/c/SomeCreator",
		},
		{
			name: "legacy user path",
			url:  "https://youtube.com/user/somecreator",
			want: "https://youtube.com/user/somecreator",
		},
		{
			name: "video page rejected",
			url:  "https://www.youtube.com/watch?v=abc123",
			want: "",
		},
		{
			name: "wrong domain",
			url:  "https://vimeo.com/channel/abc",
			want: "",
		},
		{
			name: "redirect wrapper unwrapped",
			url:  "/url?q=https%3A%2F%2Fwww.youtube.com%2F%40creator&sa=U",
			want: "https://www.youtube.com/@creator",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterYouTube(tt.url); got != tt.want {
				t.Errorf("FilterYouTube(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFilterTwitch(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "channel page",
			url:  "https://www.twitch.tv/somecaster",
			want: "https://www.twitch.tv/somecaster",
		},
		{
			name: "bare root rejected",
			url:  "https://twitch.tv/",
			want: "",
		},
		{
			name: "root without slash rejected",
			url:  "https://twitch.tv",
			want: "",
		},
		{
			name: "wrong domain",
			url:  "https://twitter.com/somecaster",
			want: "",
		},
		{
			name: "redirect wrapper unwrapped",
			url:  "/url?q=https%3A%2F%2Fwww.twitch.tv%2Fcaster&sa=U",
			want: "https://www.twitch.tv/caster",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterTwitch(tt.url); got != tt.want {
				t.Errorf("FilterTwitch(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestUnwrapRedirect(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/url?q=https%3A%2F%2Fexample.com%2Fpage&sa=U&ved=abc", "https://example.com/page"},
		{"https://example.com/direct", "https://example.com/direct"},
		{"/url?q=https%3A%2F%2Fexample.com", "https://example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := unwrapRedirect(tt.input); got != tt.want {
			t.Errorf("unwrapRedirect(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
