package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("queue", Ordered, func() {
	Context("queue", func() {
		It("push successfully", func() {
			q := newQueue()

			q.PushBack(&message{Kind: RetrievalMessageKind, Data: []byte("msg1")})
			Expect(q.Size()).To(Equal(1))
			Expect(q.head).NotTo(BeNil())
			Expect(q.tail).NotTo(BeNil())

			q.PushBack(&message{Kind: RetrievalMessageKind, Data: []byte("msg2")})
			Expect(q.Size()).To(Equal(2))
			Expect(q.head.Data).To(Equal([]byte("msg1")))
			Expect(q.tail.Data).To(Equal([]byte("msg2")))

			q.PushBack(&message{Kind: RetrievalMessageKind, Data: []byte("msg3")})
			Expect(q.Size()).To(Equal(3))
			Expect(q.head.Data).To(Equal([]byte("msg1")))
			Expect(q.tail.Data).To(Equal([]byte("msg3")))
		})

		It("pop in FIFO order", func() {
			q := newQueue()

			q.PushBack(&message{Kind: RetrievalMessageKind, Data: []byte("msg1")})
			q.PushBack(&message{Kind: RetrievalMessageKind, Data: []byte("msg2")})
			q.PushBack(&message{Kind: RetrievalMessageKind, Data: []byte("msg3")})
			Expect(q.Size()).To(Equal(3))

			m := q.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte("msg1")))
			Expect(q.Size()).To(Equal(2))

			m = q.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte("msg2")))

			m = q.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte("msg3")))
			Expect(q.Size()).To(Equal(0))

			Expect(q.Pop()).To(BeNil())
		})
	})
})
