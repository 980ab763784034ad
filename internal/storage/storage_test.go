package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
)

func TestNewObjectKeyKeepsFilename(t *testing.T) {
	key := NewObjectKey("meeting.wav")
	if !strings.HasSuffix(key, "-meeting.wav") {
		t.Fatalf("key = %q, want suffix -meeting.wav", key)
	}
	// uuid (36) + "-" + name
	if len(key) != 36+1+len("meeting.wav") {
		t.Fatalf("unexpected key length %d for %q", len(key), key)
	}
}

func TestNewObjectKeyUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		k := NewObjectKey("same.wav")
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate key %q", k)
		}
		seen[k] = struct{}{}
	}
}

func TestNewObjectKeyStripsDirectories(t *testing.T) {
	for _, in := range []string{"../../etc/passwd.wav", `C:\rec\call.wav`} {
		key := NewObjectKey(in)
		if strings.Contains(key, "/") || strings.Contains(key, `\`) {
			t.Fatalf("NewObjectKey(%q) = %q, path separators must not survive", in, key)
		}
	}
	if key := NewObjectKey(""); !strings.HasSuffix(key, "-audio") {
		t.Fatalf("empty filename key = %q, want -audio suffix", key)
	}
}

func TestObjectRefValid(t *testing.T) {
	if (ObjectRef{Bucket: "b", Key: "k"}).Valid() {
		t.Fatal("ref without URI should be invalid")
	}
	if !(ObjectRef{Bucket: "b", Key: "k", URI: "s3://b/k"}).Valid() {
		t.Fatal("complete ref should be valid")
	}
}

func TestIsS3NotFound(t *testing.T) {
	if !isS3NotFound(&smithy.GenericAPIError{Code: "NotFound"}) {
		t.Fatal("NotFound api error should map to not found")
	}
	if isS3NotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Fatal("AccessDenied must not map to not found")
	}
	if isS3NotFound(errors.New("dial tcp: timeout")) {
		t.Fatal("transport error must not map to not found")
	}
}
