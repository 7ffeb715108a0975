package log

import (
	"io"
	"testing"
)

var (
	fakeMessage = "name=Marlene Wood;email=hwestiii@att.net;phone=(473) 401-4253;ssn=261-72-6780;" +
		"password=K5?BMNv;ip=60ed:c396:2ff:244:bbd0:9208:26f2:93ea;last_login=2019-11-14 06:14:24;" +
		"user_agent=Mozilla/5.0 (Windows NT 6.1; WOW64);"
	output = io.Discard
)

func BenchmarkRedactor(b *testing.B) {
	r, err := NewRedactor(PIIFields(), DefaultRedaction, DefaultSeparator)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = r.Redact(fakeMessage)
		}
	})
}

func BenchmarkRedactOneShot(b *testing.B) {
	fields := PIIFields()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Redact(fields, DefaultRedaction, fakeMessage, DefaultSeparator)
	}
}

func BenchmarkTextInfo(b *testing.B) {
	l := New(output)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Info(fakeMessage)
		}
	})
}

func BenchmarkTextInfoWith(b *testing.B) {
	l := New(output).With(
		"service", "billing",
		"email", "ops@example.com",
	)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.InfoS("charge",
				"name", "Marlene Wood",
				"amount", 12.5,
				"card", "4111-1111",
				"ok", true,
			)
		}
	})
}
